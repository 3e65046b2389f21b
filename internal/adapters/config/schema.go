package config

// Manifest represents the structure of the typesync.yaml file.
type Manifest struct {
	Source    SourceDTO    `yaml:"source"`
	Generator GeneratorDTO `yaml:"generator"`
	Output    OutputDTO    `yaml:"output"`
}

// SourceDTO describes the upstream project.
type SourceDTO struct {
	Repository  string `yaml:"repository"`
	Version     string `yaml:"version"`
	BaseURL     string `yaml:"baseURL"`
	Subdir      string `yaml:"subdir"`
	StrictCache bool   `yaml:"strictCache"`
}

// GeneratorDTO describes the generator executable and how to build it.
type GeneratorDTO struct {
	Name      string   `yaml:"name"`
	AutoBuild bool     `yaml:"autoBuild"`
	Build     []string `yaml:"build"`
	BuildDir  string   `yaml:"buildDir"`
}

// OutputDTO describes where the generated file goes.
type OutputDTO struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}
