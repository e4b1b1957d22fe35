package pathutils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/trenza/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/tester"
)

func TestRootPathResolverNormalizesInputs(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name         string
		input        string
		expectedPath string
		expectError  bool
	}{
		{name: "absolute_path", input: "/srv/projects", expectedPath: "/srv/projects"},
		{name: "trailing_separator", input: "/srv/projects/", expectedPath: "/srv/projects"},
		{name: "surrounding_whitespace", input: "  /srv/projects\t", expectedPath: "/srv/projects"},
		{name: "home_only", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "home_relative", input: "~/src/platform", expectedPath: "/home/tester/src/platform"},
		{name: "other_user_untouched", input: "~other/src", expectedPath: "~other/src"},
		{name: "dot_segments", input: "/srv/projects/../mono/./src", expectedPath: "/srv/mono/src"},
		{name: "empty", input: "   ", expectError: true},
	}

	resolver := pathutils.NewRootPathResolverWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.Resolve(testCase.input)
			if testCase.expectError {
				require.ErrorIs(testInstance, resolveError, pathutils.ErrEmptyRootPath)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}

func TestRootPathResolverKeepsTildeWhenHomeUnavailable(testInstance *testing.T) {
	testInstance.Parallel()

	resolver := pathutils.NewRootPathResolverWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})

	resolvedPath, resolveError := resolver.Resolve("~/src")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "~/src", resolvedPath)
}
