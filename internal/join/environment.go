package join

const (
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
	gitMergeAutoEditEnvironmentNameConstant  = "GIT_MERGE_AUTOEDIT"
	gitMergeAutoEditDisabledValueConstant    = "no"
)

// nonInteractiveEnvironment keeps git from prompting for credentials or opening an editor.
func nonInteractiveEnvironment() map[string]string {
	return map[string]string{
		gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant,
		gitMergeAutoEditEnvironmentNameConstant:  gitMergeAutoEditDisabledValueConstant,
	}
}
