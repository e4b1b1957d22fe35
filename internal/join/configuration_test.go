package join

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigurationValuesUsePrefix(t *testing.T) {
	t.Parallel()

	require.Equal(t, map[string]any{
		"tools.join.suffix": "_joined",
		"tools.join.branch": "",
	}, DefaultConfigurationValues("tools.join"))
	require.Equal(t, map[string]any{
		"suffix": "_joined",
		"branch": "",
	}, DefaultConfigurationValues(""))
}

func TestSanitizeRestoresDefaultSuffix(t *testing.T) {
	t.Parallel()

	sanitized := CommandConfiguration{Suffix: "   ", Branch: "  main "}.Sanitize()
	require.Equal(t, CommandConfiguration{Suffix: "_joined", Branch: "main"}, sanitized)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name             string
		configuration    CommandConfiguration
		expectedMessages []string
	}{
		{
			name:          "valid",
			configuration: CommandConfiguration{Suffix: "_mono", Branch: "release/1.0"},
		},
		{
			name:             "separator_in_suffix",
			configuration:    CommandConfiguration{Suffix: "/nested"},
			expectedMessages: []string{`suffix "/nested" must not contain a path separator`},
		},
		{
			name:          "all_problems",
			configuration: CommandConfiguration{Suffix: `x\y`, Branch: "two words"},
			expectedMessages: []string{
				`suffix "x\\y" must not contain a path separator`,
				`branch name "two words" must not contain whitespace`,
				"2 errors occurred",
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			validationError := testCase.configuration.Validate()
			if len(testCase.expectedMessages) == 0 {
				require.NoError(t, validationError)
				return
			}
			require.ErrorIs(t, validationError, ErrInvalidConfiguration)
			for _, expectedMessage := range testCase.expectedMessages {
				require.Contains(t, validationError.Error(), expectedMessage)
			}
		})
	}
}
