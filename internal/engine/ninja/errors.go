package ninja

import (
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/zerr"
)

func withTargetContext(sentinel error, t *domain.Target, key, value string) error {
	err := zerr.With(sentinel, "target", t.Label.UserVisibleName(true))
	if key != "" {
		err = zerr.With(err, key, value)
	}
	return err
}
