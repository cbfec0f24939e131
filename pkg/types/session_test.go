// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryLength(t *testing.T) {
	tests := []struct {
		in   string
		want SummaryLength
	}{
		{"", SummaryModerate},
		{"Short", SummaryShort},
		{" moderate ", SummaryModerate},
		{"DETAILED", SummaryDetailed},
	}
	for _, tt := range tests {
		got, err := ParseSummaryLength(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSummaryLength_UnknownListsChoices(t *testing.T) {
	_, err := ParseSummaryLength("epic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"epic"`)
	assert.Contains(t, err.Error(), "short, moderate, detailed")
}

func TestSummaryLengthChoices(t *testing.T) {
	assert.Equal(t, "short, moderate, detailed", SummaryLengthChoices())
}
