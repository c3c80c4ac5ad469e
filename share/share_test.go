package share

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsContextClosedError(t *testing.T) {
	assert.True(t, IsContextClosedError(context.Canceled))
	assert.True(t, IsContextClosedError(errors.WithStack(context.DeadlineExceeded)))
	assert.True(t, IsContextClosedError(&url.Error{Op: "Post", URL: "x", Err: context.Canceled}))
	assert.False(t, IsContextClosedError(errors.New("boom")))
}

func TestTemplateFuncMap(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(TemplateFuncMap).Parse(
		`{{ fn .A }}|{{ fn .B }}|{{ pct .C }}|{{ sec .D }}|{{ ts .E }}`,
	))

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]interface{}{
		"A": 1234567,
		"B": 1234.56,
		"C": 87.5,
		"D": 1500 * time.Millisecond,
		"E": 65432,
	})
	require.NoError(t, err)
	assert.Equal(t, "1,234,567|1,234.6|87.50%|1.5s|01:05.432", buf.String())
}
