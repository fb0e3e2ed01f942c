package port

import "context"

type Classifier interface {
	// Predict returns the predicted label for a piece of text along with
	// the model's confidence in the prediction.
	Predict(ctx context.Context, text string) (string, float64, error)
}
