package predict

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoHost        = errors.New("predict: host is nil")
	ErrNoTarget      = errors.New("predict: target field is nil")
	ErrNoPredictFunc = errors.New("predict: Config.Get is nil")
)

// PredictionError wraps a failure returned by Config.Get.
type PredictionError struct {
	Value string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("predict: prediction for %q failed: %v", e.Value, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// IsCanceled reports whether err signals a superseded or torn-down request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
