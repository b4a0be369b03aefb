package alarm

import (
	"context"
	"errors"
	"math/rand"

	"focusd/internal/notify"
)

// affirmations is the fixed pool the visual acknowledgment draws from.
var affirmations = []string{
	"Session complete. Well done!",
	"You stayed with it. That counts.",
	"Focus finished — take a breath.",
	"Another session in the books.",
	"Done. Your future self says thanks.",
	"That was real, uninterrupted work.",
}

// visualLayer surfaces the completion acknowledgment through the notifier.
// It is the last layer in the chain and the guaranteed-delivery fallback.
type visualLayer struct {
	notifier notify.Notifier
}

func newVisualLayer(notifier notify.Notifier) *visualLayer {
	return &visualLayer{notifier: notifier}
}

func (v *visualLayer) Name() string { return "visual" }

func (v *visualLayer) Trigger(ctx context.Context) error {
	if v.notifier == nil {
		return errors.New("no notifier configured")
	}
	return v.notifier.Send(notify.Payload{
		Title: "Focus session complete",
		Body:  affirmations[rand.Intn(len(affirmations))],
	})
}

func (v *visualLayer) Stop() {}
