package config

// File represents the structure of the qrun.yaml configuration file.
// Every field is optional; empty values fall back to the embedded defaults.
type File struct {
	Compiler string `yaml:"compiler"`
	Source   string `yaml:"source"`
	Include  string `yaml:"include"`
	Library  string `yaml:"library"`
	Output   string `yaml:"output"`
}
