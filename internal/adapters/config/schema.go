package config

// ManifestVersion is the only manifest version this loader understands.
const ManifestVersion = "1"

// Manifest represents the structure of the bam.yaml file.
type Manifest struct {
	Version string    `yaml:"version"`
	Cache   string    `yaml:"cache"`
	Nodes   []NodeDTO `yaml:"nodes"`
}

// NodeDTO represents a node declaration in the manifest.
type NodeDTO struct {
	Path    string   `yaml:"path"`
	Command []string `yaml:"command"`
	Deps    []string `yaml:"deps"`
	Scan    bool     `yaml:"scan"`
}
