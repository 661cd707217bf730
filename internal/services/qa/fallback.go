package qa

import "fmt"

// fallbackAnswer builds the locally generated answer. The wording differs between
// a missing credential and a failed remote call; both embed the question verbatim.
func fallbackAnswer(question string, callFailed bool) string {
	if callFailed {
		return fmt.Sprintf("I was unable to get a live answer for your question: \"%s\". "+
			"The request to the AI service failed, so this is a locally generated response. "+
			"Please try again later.", question)
	}
	return fmt.Sprintf("I could not reach a live answer service for your question: \"%s\". "+
		"No Google API key is configured, so this is a locally generated response. "+
		"Configure gemini.api_key to enable AI answers.", question)
}
