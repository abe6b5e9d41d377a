package server_test

import (
	"testing"

	"catalog-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimitBytes(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"Default floor on zero", 0, 64 * 1024 * 1024},
		{"Default floor on negative", -1, 64 * 1024 * 1024},
		{"Explicit value", 8, 8 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimitBytes())
		})
	}
}
