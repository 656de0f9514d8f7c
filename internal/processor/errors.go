package processor

import "fmt"

// Stage names the pipeline step at which a failure happened
type Stage string

const (
	StageSelect    Stage = "select"
	StageRead      Stage = "read"
	StageConvert   Stage = "convert"
	StageTranslate Stage = "translate"
	StagePersist   Stage = "persist"
)

// StageError wraps a failure with the stage and file it belongs to
type StageError struct {
	Stage Stage
	File  string
	Err   error
}

func (e *StageError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Stage, e.File, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
