package summary

import (
	"fmt"
	"strings"
)

const (
	chunkSystem = "You are an assistant that can identify speakers based on textual cues."
	finalSystem = "You are an assistant that provides concise summaries."

	// DefaultContext describes the organization the meetings belong to.
	DefaultContext = `This meeting happened in the context of our company called Rainsound.ai. We build AI Agents for customers like Nvidia, Salesforce, and Microsoft.

Some meetings are internal while others involve external entities like our finance lead or sales lead etc.
There are strategy meetings, business operation meetings, customer-facing sales meetings, and delivery work sessions.`
)

const chunkTemplate = `Here is a transcription of a conversation. The conversation involves multiple people, and I want you to try your best to identify who is speaking based on the context, tone, and content. Summarize the key points and label the speakers where possible.

Transcription: %s`

const finalTemplate = `Here is a combined summary of a transcription that was split into multiple chunks and summarized in chunks.

%s

When meetings begin with introductions, skip that part for the purpose of this summary except for external people. Represent everyone who spoke in this meeting in a concise list.

Organize the response into a one sentence intro and then 1-5 sections containing bullet points for key insights, and then an analysis at the end.
If any next actions were discussed please include those in the final analysis.

The title of each section should feel intuitive.

Throughout the entire response clearly mark who said what when relevant.

Propose potential next actions in a section at the very end called "Potential Next Actions".
%s
Combined Summary: %s`

const sampleTemplate = `
Use this sample summary as a guide. It represents the kind of summarization fidelity and structure we expect from you.

Sample Summary: %s
`

func chunkPrompt(chunk string) string {
	return fmt.Sprintf(chunkTemplate, chunk)
}

func finalPrompt(context, sample, combined string) string {
	if strings.TrimSpace(context) == "" {
		context = DefaultContext
	}
	var guide string
	if s := strings.TrimSpace(sample); s != "" {
		guide = fmt.Sprintf(sampleTemplate, s)
	}
	return fmt.Sprintf(finalTemplate, strings.TrimSpace(context), guide, combined)
}
