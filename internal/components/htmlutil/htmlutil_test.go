package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<td><b>種植</b>面積<br/><span>(公頃)</span></td>`))
	require.NoError(t, err)
	require.Equal(t, "種植面積(公頃)", GetText(doc))
	require.Equal(t, "", GetText(nil))
}

func TestClean(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "  臺南市 \n", expected: "臺南市"},
		{input: "種植\t\t面積", expected: "種植 面積"},
		{input: "\u200b收量", expected: "收量"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Clean(test.input))
	}
}
