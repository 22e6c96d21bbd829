package sitemapgen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/sitemapgen"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitemapgen.Errorf(sitemapgen.EINVALID, "root URL %q is not absolute", "docs")

	assert.Equal(t, sitemapgen.EINVALID, sitemapgen.ErrorCode(err))
	assert.Equal(t, "root URL \"docs\" is not absolute", sitemapgen.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitemapgen.ErrorCode(nil))
}

func TestErrorCode_UnwrapsWrappedApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetch: %w", sitemapgen.Errorf(sitemapgen.ENOTFOUND, "HTTP 404"))

	assert.Equal(t, sitemapgen.ENOTFOUND, sitemapgen.ErrorCode(err))
	assert.Equal(t, "HTTP 404", sitemapgen.ErrorMessage(err))
}

func TestErrorCode_NonApplicationErrorIsInternal(t *testing.T) {
	t.Parallel()

	err := errors.New("connection refused")

	assert.Equal(t, sitemapgen.EINTERNAL, sitemapgen.ErrorCode(err))
	assert.Equal(t, "Internal error.", sitemapgen.ErrorMessage(err))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitemapgen.ErrorMessage(nil))
}

func TestErrorDetail(t *testing.T) {
	t.Parallel()

	t.Run("application error yields its message", func(t *testing.T) {
		t.Parallel()
		err := sitemapgen.Errorf(sitemapgen.EINTERNAL, "HTTP %d", 500)
		assert.Equal(t, "HTTP 500", sitemapgen.ErrorDetail(err))
	})

	t.Run("other errors yield their text", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "connection refused", sitemapgen.ErrorDetail(errors.New("connection refused")))
	})

	t.Run("nil yields empty string", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, sitemapgen.ErrorDetail(nil))
	})
}
