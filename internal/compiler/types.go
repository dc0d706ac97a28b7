package compiler

// OptimizerSettings is the optimizer block of solc standard-JSON settings.
type OptimizerSettings struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Runs    int  `json:"runs" yaml:"runs"`
}

// Settings is the settings object of a solc standard-JSON input.
type Settings struct {
	Optimizer       OptimizerSettings              `json:"optimizer" yaml:"optimizer"`
	OutputSelection map[string]map[string][]string `json:"outputSelection,omitempty" yaml:"outputSelection,omitempty"`
}

// Source is a single entry of the standard-JSON sources object.
type Source struct {
	Content string `json:"content"`
}

// StandardInput is the document solc reads with --standard-json.
type StandardInput struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings"`
}

// Selection is the compiler release plus the settings it is invoked with.
type Selection struct {
	Version  string   `json:"version"`
	Settings Settings `json:"settings"`
}
