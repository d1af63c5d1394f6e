package remote

import "github.com/tidwall/gjson"

// Reply shapes seen in the wild: a bare chat-completion object, a legacy
// text completion, and either of those wrapped in a proxy's "body" field.
// All variability is absorbed here so callers only see text or a Kind.
var textPaths = []string{
	"choices.0.message.content",
	"choices.0.text",
	"body.choices.0.message.content",
	"body.choices.0.text",
}

var errorPaths = []string{
	"error.message",
	"body.error.message",
}

// ParseReply maps a raw response body to the assistant text. It returns a
// *Error with KindProvider when the body carries an explicit error object
// and KindMalformed when no known shape yields assistant text.
func ParseReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", newError(KindMalformed, "response is not valid JSON")
	}

	for _, path := range errorPaths {
		if v := gjson.GetBytes(body, path); v.Exists() {
			return "", newError(KindProvider, "provider error: %s", v.String())
		}
	}

	for _, path := range textPaths {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			return v.String(), nil
		}
	}

	return "", newError(KindMalformed, "no assistant text in response")
}
