package scripts

// ScriptDefinition represents a multi-step chat script loaded from YAML
type ScriptDefinition struct {
	// Name is the unique identifier for the script
	Name string `yaml:"name"`

	// Description explains what the script does
	Description string `yaml:"description"`

	// Variables seeds the substitution context for {{var}} templates
	Variables map[string]string `yaml:"variables"`

	// Steps defines the sequence of script steps
	Steps []ScriptStep `yaml:"steps"`

	// FilePath is the source file this definition was loaded from
	FilePath string `yaml:"-"`

	// IsGlobal indicates if this script was loaded from global config
	IsGlobal bool `yaml:"-"`
}

// ScriptStep defines a single step. Exactly one of Prompt, Input or When
// determines the step kind.
type ScriptStep struct {
	// Prompt is sent to the model. Supports {{var}} substitution.
	Prompt string `yaml:"prompt"`

	// System injects the prompt as system context instead of asking the model
	System bool `yaml:"system"`

	// Input pauses the script and asks the user for a value
	Input string `yaml:"input"`

	// When is a condition expression selecting IfTrue or IfFalse.
	// Supports "a == b", "a != b" and bare-variable truthiness.
	When string `yaml:"when"`

	// IfTrue/IfFalse are step lists injected inline when When evaluates
	IfTrue  []ScriptStep `yaml:"if_true"`
	IfFalse []ScriptStep `yaml:"if_false"`

	// StoreAs captures the model response or input value as a variable
	StoreAs string `yaml:"store_as"`

	// AutoContinue controls whether the script proceeds after a response.
	// Defaults to true; false pauses until the user continues.
	AutoContinue *bool `yaml:"auto_continue"`
}

// StepKind classifies a step
type StepKind int

const (
	KindPrompt StepKind = iota
	KindInput
	KindCondition
	KindInvalid
)

// Kind returns the step classification
func (s *ScriptStep) Kind() StepKind {
	switch {
	case s.Prompt != "":
		return KindPrompt
	case s.Input != "":
		return KindInput
	case s.When != "":
		return KindCondition
	}
	return KindInvalid
}

// Validate checks if the script definition is valid
func (d *ScriptDefinition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if len(d.Steps) == 0 {
		return ErrNoSteps
	}
	for i := range d.Steps {
		if d.Steps[i].Kind() == KindInvalid {
			return &StepError{Index: i, Err: ErrEmptyStep}
		}
	}
	return nil
}
