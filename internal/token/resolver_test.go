package token

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/push-reminder/internal/errs"
	"github.com/aliskhannn/push-reminder/internal/model"
)

func ptr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		token   *string
		want    string
		wantErr error
	}{
		{name: "present", token: ptr("abc"), want: "abc"},
		{name: "trimmed", token: ptr("  abc\n"), want: "abc"},
		{name: "missing", token: nil, wantErr: errs.ErrNoDeviceToken},
		{name: "blank", token: ptr("   "), wantErr: errs.ErrNoDeviceToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(model.DueNotification{DeviceToken: tt.token})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
