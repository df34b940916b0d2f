package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		wantEmpty   bool
	}{
		{name: "valid json", requestBody: `{"name": "test", "age": 30}`},
		{name: "invalid json", requestBody: `{"name": "test", "age": 30,}`, wantErr: true},
		{name: "unknown field", requestBody: `{"name": "test", "extra": true}`, wantErr: true},
		{name: "trailing object", requestBody: `{"name": "a"} {"name": "b"}`, wantErr: true},
		{name: "wrong type", requestBody: `{"age": "thirty"}`, wantErr: true},
		{name: "empty body", requestBody: ``, wantErr: true, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.requestBody))

			var got payload
			err := DecodeJSON(req, &got)

			if !tt.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, payload{Name: "test", Age: 30}, got)
				return
			}
			assert.Error(t, err)
			if tt.wantEmpty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}
