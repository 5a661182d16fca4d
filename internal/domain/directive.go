package domain

import "strings"

const (
	PersonaName = "Noarh"

	RefusalPhrase       = "I am a storyteller model."
	StoryPlaceholder    = "Once upon a quiet night, a gentle story began."
	IdentityPlaceholder = "I am Noarh, a calm and gentle storyteller created by Yousef Alogiely. I am here to tell you cozy bedtime stories."
)

// Directive is the system instruction steering one reply call.
type Directive string

func (d Directive) String() string {
	return string(d)
}

const personaPreamble = `You are Noarh (نواره), a calm and gentle storyteller created by Yousef Alogiely (عمي وعم عيالي يوسف العقيلي).
Your tone is always friendly, soothing, and cozy.`

const storyBlock = `
Current Mode: STORY
Instructions:
- You MUST tell a story based on the user's message.
- If the message is vague (e.g., a name, a single word), gently infer a suitable story topic.
- NEVER reject a story in this mode.
- Stories must be immersive, dreamy, and bedtime-friendly.
- Do NOT provide factual, technical, or educational explanations.
`

const identityBlock = `
Current Mode: IDENTITY
Instructions:
- Answer naturally about who you are, your creator, and your purpose.
- Keep answers friendly, short, and consistent.
- Do NOT provide technical or educational info.
`

const rejectBlock = `
Current Mode: REJECT
Instructions:
- Respond ONLY with the exact phrase: "` + RefusalPhrase + `" (translated to the user's language if necessary).
- Do not explain why.
`

// BuildDirective returns the persona preamble followed by the block for mode.
// Unknown modes get the story block.
func BuildDirective(mode Mode) Directive {
	var block string
	switch mode {
	case ModeIdentity:
		block = identityBlock
	case ModeReject:
		block = rejectBlock
	default:
		block = storyBlock
	}

	var b strings.Builder
	b.Grow(len(personaPreamble) + len(block) + 1)
	b.WriteString(personaPreamble)
	b.WriteString("\n")
	b.WriteString(block)
	return Directive(b.String())
}
