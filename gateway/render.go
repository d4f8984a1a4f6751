package gateway

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robonexus/communitybot/dateparse"
	"github.com/robonexus/communitybot/messaging"
)

// renderPrompt turns a prompt into the message text sent to the member. The
// wording mirrors what the community is used to seeing from the bot.
func renderPrompt(p messaging.Prompt) string {
	switch p.Kind {
	case messaging.PromptWelcome:
		return strings.Join([]string{
			"🎉 Welcome to Robo Nexus! To get started, please provide:",
			"1. Your Name",
			"2. Your Class/Grade (6, 7, 8, 9, 10, 11, or 12)",
			"Example: `John Smith, Class 10`",
		}, "\n")

	case messaging.PromptNameClassRetry:
		return strings.Join([]string{
			"❓ I couldn't find your name and class in that message.",
			"Valid classes: 6, 7, 8, 9, 10, 11, 12",
			"Try again like: `John Smith, Class 10` or `Sarah, Grade 8` or `Mike 12th`",
		}, "\n")

	case messaging.PromptBirthday:
		return strings.Join([]string{
			fmt.Sprintf("🎂 Nice to meet you, **%s** from Class **%s**!", p.Name, p.Class),
			"Please share your birthday so we can celebrate with you.",
			"Examples: `03-15` (March 15), `12/25` (December 25)",
		}, "\n")

	case messaging.PromptBirthdayRetry:
		lines := []string{"❌ I couldn't understand that birthday format.", "Supported formats:"}
		for _, format := range dateparse.SupportedFormats() {
			lines = append(lines, "• "+format)
		}
		return strings.Join(lines, "\n")

	case messaging.PromptBirthdayConfirmed:
		return fmt.Sprintf("🎉 Your birthday has been set to **%s**. The community will celebrate with you on your special day!", p.Birthday)

	case messaging.PromptEmail:
		return strings.Join([]string{
			fmt.Sprintf("📧 Great! Welcome **%s** from Class %s!", p.Name, p.Class),
			"Please provide your Gmail address, e.g. `john.smith@gmail.com`.",
			"Type `skip` or `none` if you don't want to share it.",
		}, "\n")

	case messaging.PromptEmailRetry:
		return "❌ That doesn't look like a valid Gmail address (@gmail.com). Try again, or type `skip`."

	case messaging.PromptPhone:
		return strings.Join([]string{
			"📱 Almost there! Please share your phone number.",
			"Example: `9876543210` or `+91 98765 43210`",
			"Type `skip` or `none` if you don't want to share it.",
		}, "\n")

	case messaging.PromptPhoneRetry:
		return "❌ That doesn't look like a valid phone number (10 digits, or international format). Try again, or type `skip`."

	case messaging.PromptLinks:
		return strings.Join([]string{
			"🔗 Last step! Share your online presence — portfolio website, GitHub, LinkedIn, YouTube, Spotify.",
			"Example:",
			"`Portfolio: johnsmith.dev, GitHub: github.com/johnsmith`",
			"Or type `none` if you don't have any links.",
		}, "\n")
	}
	return ""
}

func renderCompletion(c messaging.Completion) string {
	lines := []string{
		fmt.Sprintf("✅ Welcome to Robo Nexus, **%s**!", c.Name),
		fmt.Sprintf("**Class:** %s", c.Class),
	}
	if c.Email != nil {
		lines = append(lines, fmt.Sprintf("**Email:** %s", *c.Email))
	}
	if c.Phone != nil {
		lines = append(lines, fmt.Sprintf("**Phone:** %s", *c.Phone))
	}
	for _, platform := range sortedKeys(c.SocialLinks) {
		lines = append(lines, fmt.Sprintf("**%s:** %s", title(platform), c.SocialLinks[platform]))
	}
	if !c.ProfileSaved {
		lines = append(lines, "⚠️ Your verification is complete, but there was an issue saving your profile. Please contact an admin.")
	}
	return strings.Join(lines, "\n")
}

func renderVerifiedAnnouncement(c messaging.Completion) string {
	return fmt.Sprintf("✅ **%s** (Class %s) is now fully set up!", c.Name, c.Class)
}

func renderJoinAnnouncement(memberID string) string {
	return fmt.Sprintf("👋 <@%s> joined the server! Starting verification process...", memberID)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
