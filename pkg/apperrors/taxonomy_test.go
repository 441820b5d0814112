package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_CategoryToActionIsFixed(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCat    Category
		wantAction RecoveryAction
	}{
		{"sqlite failure", errors.New("sqlite: database is locked"), CategoryDatabase, ActionRetry},
		{"missing table", errors.New("no such table: job_positions"), CategoryDatabase, ActionRetry},
		{"rate limited", errors.New("429 rate limit exceeded"), CategoryAPI, ActionRetryWithDelay},
		{"auth failure", errors.New("401 unauthorized api key"), CategoryAPI, ActionRetryWithDelay},
		{"chart failure", errors.New("chart: render png: encode failed"), CategoryChart, ActionSkipChart},
		{"format failure", errors.New("format table: bad column"), CategoryRender, ActionFallback},
		{"export failure", errors.New("export csv: write file: disk full"), CategoryExport, ActionNone},
		{"unknown", errors.New("something odd"), CategoryUnknown, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.err)
			require.NotNil(t, c)
			assert.Equal(t, tt.wantCat, c.Category)
			assert.Equal(t, tt.wantAction, c.Action)
			assert.NotEmpty(t, c.UserMessage)
		})
	}
}

func TestClassify_SameCategorySameAction(t *testing.T) {
	a := Classify(errors.New("sqlite: disk I/O error"))
	b := Classify(errors.New("database file is corrupt"))
	assert.Equal(t, a.Category, b.Category)
	assert.Equal(t, a.Action, b.Action)
}

func TestClassify_Sentinels(t *testing.T) {
	c := Classify(fmt.Errorf("open store: %w", ErrNoDatabase))
	assert.Equal(t, CategoryDatabase, c.Category)

	c = Classify(fmt.Errorf("build query: %w", ErrUnknownPercentile))
	assert.Equal(t, CategoryInput, c.Category)
	assert.Equal(t, ActionNone, c.Action)
}

func TestClassify_ContextCancellation(t *testing.T) {
	c := Classify(fmt.Errorf("llm call: %w", context.Canceled))
	assert.Equal(t, CategoryCancelled, c.Category)
	assert.Equal(t, ActionNone, c.Action)
}

func TestClassify_PreservesExistingClassification(t *testing.T) {
	orig := New(CategoryChart, errors.New("png encode"))
	wrapped := fmt.Errorf("pipeline step 3: %w", orig)

	c := Classify(wrapped)
	assert.Same(t, orig, c)
}

func TestClassify_NilIsNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassified_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	c := New(CategoryDatabase, cause)
	assert.True(t, errors.Is(c, cause))
}
