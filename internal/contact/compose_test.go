package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_MinimalSubmission(t *testing.T) {
	s := Submission{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "Hello, I'm interested in corporate training.",
	}

	n, err := Compose(s)
	require.NoError(t, err)

	assert.Equal(t, "New Contact Form Submission from Jane Doe", n.Subject)
	assert.Equal(t, "jane@example.com", n.ReplyTo)

	assert.Contains(t, n.Text, "Name: Jane Doe\n")
	assert.Contains(t, n.Text, "Phone: Not provided\n")
	assert.Contains(t, n.Text, "Organization: Not provided\n")
	assert.Contains(t, n.Text, "Program of Interest: Not specified\n")
	assert.Contains(t, n.Text, "Message:\nHello, I'm interested in corporate training.\n")

	assert.Contains(t, n.HTML, "<strong>Phone:</strong> Not provided")
	assert.Contains(t, n.HTML, "<strong>Program of Interest:</strong> Not specified")

	assert.Contains(t, n.WhatsApp, "*Name:* Jane Doe")
	assert.Contains(t, n.WhatsApp, "*Program:* Not specified")
	assert.Contains(t, n.Telegram, "<b>Name:</b> Jane Doe")
	assert.Contains(t, n.Telegram, "<b>Organization:</b> Not provided")

	assert.Equal(t, "New contact: Jane Doe (jane@example.com). Message: Hello, I'm interested in corporate training.", n.SMS)
}

func TestCompose_Deterministic(t *testing.T) {
	s := Submission{Name: "A", Email: "a@b.co", Phone: "+1555", Organization: "Org", Program: "Leadership", Message: "x\ny"}

	first, err := Compose(s)
	require.NoError(t, err)
	second, err := Compose(s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompose_MessageNewlines(t *testing.T) {
	s := Submission{Name: "A", Email: "a@b.co", Message: "line one\nline two\nline three"}

	n, err := Compose(s)
	require.NoError(t, err)

	assert.Contains(t, n.HTML, "line one<br>line two<br>line three")
	assert.Contains(t, n.Text, "line one\nline two\nline three")
	assert.Contains(t, n.WhatsApp, "line one\nline two\nline three")
}

func TestCompose_EscapesMarkup(t *testing.T) {
	s := Submission{Name: "Tom & Jerry", Email: "t@j.co", Organization: "R&D", Message: "a & b"}

	n, err := Compose(s)
	require.NoError(t, err)

	assert.Contains(t, n.HTML, "Tom &amp; Jerry")
	assert.Contains(t, n.Telegram, "<b>Name:</b> Tom &amp; Jerry")
	assert.Contains(t, n.Telegram, "<b>Organization:</b> R&amp;D")
	assert.Contains(t, n.Text, "Name: Tom & Jerry")
	assert.Contains(t, n.WhatsApp, "*Name:* Tom & Jerry")
}

func TestSMSText_Truncation(t *testing.T) {
	exact := strings.Repeat("a", SMSMessageLimit)
	long := strings.Repeat("b", SMSMessageLimit) + "tail"

	t.Run("at limit", func(t *testing.T) {
		got := SMSText(Submission{Name: "N", Email: "e@x.co", Message: exact})
		assert.Equal(t, "New contact: N (e@x.co). Message: "+exact, got)
		assert.False(t, strings.HasSuffix(got, "..."))
	})

	t.Run("over limit", func(t *testing.T) {
		got := SMSText(Submission{Name: "N", Email: "e@x.co", Message: long})
		assert.Equal(t, "New contact: N (e@x.co). Message: "+strings.Repeat("b", SMSMessageLimit)+"...", got)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		msg := strings.Repeat("é", SMSMessageLimit+1)
		got := SMSText(Submission{Name: "N", Email: "e@x.co", Message: msg})
		assert.True(t, strings.HasSuffix(got, strings.Repeat("é", SMSMessageLimit)+"..."))
	})
}
