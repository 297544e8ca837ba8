package display

import (
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/event"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// Unavailable is the adapter used when no display service was registered.
// Every read fails with ADAPTER_UNAVAILABLE and no change signal ever fires.
type Unavailable struct{}

func (Unavailable) IsDualModeActive() bool { return false }

func (Unavailable) HingeRectPixels() (geom.Rect, error) {
	return geom.Zero, errUnavailable()
}

func (Unavailable) Rotation() (Rotation, error) {
	return Rotation0, errUnavailable()
}

func (Unavailable) DensityScale() (float64, error) {
	return 0, errUnavailable()
}

func (Unavailable) ScreenSizePixels() (geom.Size, error) {
	return geom.Size{}, errUnavailable()
}

func (Unavailable) OnScreenChanged(func()) *event.Subscription {
	return event.NewSubscription(nil)
}

func errUnavailable() error {
	return errors.New(errors.ErrCodeAdapterUnavailable, "no display service registered")
}

var _ Adapter = Unavailable{}
