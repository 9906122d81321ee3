// Package token resolves the push address of a due notification.
package token

import (
	"strings"

	"github.com/aliskhannn/push-reminder/internal/errs"
	"github.com/aliskhannn/push-reminder/internal/model"
)

// Resolve returns the device token joined onto n. A subscriber without a
// token is unreachable, reported as errs.ErrNoDeviceToken.
func Resolve(n model.DueNotification) (string, error) {
	if n.DeviceToken == nil {
		return "", errs.ErrNoDeviceToken
	}

	token := strings.TrimSpace(*n.DeviceToken)
	if token == "" {
		return "", errs.ErrNoDeviceToken
	}

	return token, nil
}
