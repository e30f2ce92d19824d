// Package respond turns an agent's view of the policy package and the
// recent conversation into a reply with an emotion tag. Remote service
// failures degrade to canned lines and deterministic emotion tables;
// Generate never fails because a backend did.
package respond

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"

	"github.com/challengegame/negotiator/internal/agents"
	"github.com/challengegame/negotiator/internal/catalog"
	"github.com/challengegame/negotiator/internal/emotion"
	"github.com/challengegame/negotiator/internal/provider"
)

// contextWindow is how many trailing messages feed the prompt.
const contextWindow = 5

// ContextMessage is one prior conversation entry offered to the model.
type ContextMessage struct {
	Sender  string
	Content string
	IsUser  bool
}

// Request describes one agent turn to generate.
type Request struct {
	Agent    agents.Profile
	Policies []catalog.PolicyOption
	// History is the full conversation so far; Generate trims it to
	// the context window.
	History []ContextMessage
	// RespondToUser is set when the turn must address the user's last
	// message rather than continue agent chatter.
	RespondToUser string
	// AreaTitle scopes the reply to one policy area when the table is
	// in per-policy discussion mode.
	AreaTitle string
}

// Reply is a finished agent turn.
type Reply struct {
	Message   string
	Emotion   emotion.Emotion
	Sentiment emotion.Sentiment
	// Generated is false when the message came from the canned
	// pattern tables instead of the text service.
	Generated bool
}

// Generator produces agent replies. Zero value is unusable; use New.
type Generator struct {
	text       provider.TextGenerator
	classifier provider.EmotionClassifier
	rng        *rand.Rand
	logger     *slog.Logger
}

// Options configures a Generator. Text and Classifier may be nil, in
// which case every reply takes the corresponding fallback path.
type Options struct {
	Text       provider.TextGenerator
	Classifier provider.EmotionClassifier
	Rand       *rand.Rand
	Logger     *slog.Logger
}

// New creates a Generator.
func New(opts Options) *Generator {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Generator{
		text:       opts.Text,
		classifier: opts.Classifier,
		rng:        opts.Rand,
		logger:     opts.Logger,
	}
}

// Generate produces the agent's next reply. Service failures are
// logged and absorbed: the reply falls back to a canned line and the
// deterministic emotion table.
func (g *Generator) Generate(ctx context.Context, req Request) Reply {
	tiers := make([]int, len(req.Policies))
	for i, p := range req.Policies {
		tiers[i] = p.Tier
	}
	sentiment := emotion.SentimentForTiers(req.Agent.Stance, tiers)

	message, emotionLabel, generated := g.generateText(ctx, req, sentiment)
	if !generated {
		message = g.cannedLine(req, sentiment)
	}

	e := g.classifyEmotion(ctx, req, message, emotionLabel, sentiment)
	return Reply{
		Message:   message,
		Emotion:   e,
		Sentiment: sentiment,
		Generated: generated,
	}
}

func (g *Generator) generateText(ctx context.Context, req Request, sentiment emotion.Sentiment) (message, emotionLabel string, ok bool) {
	if g.text == nil {
		return "", "", false
	}
	resp, err := g.text.Generate(ctx, &provider.GenerateRequest{
		Messages: []provider.Message{
			{Role: "system", Content: agentDescription(req.Agent, sentiment)},
			{Role: "user", Content: buildPrompt(req, sentiment)},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		g.logger.Warn("text generation failed, using canned line",
			"agent", req.Agent.ID, "error", err)
		return "", "", false
	}

	message, emotionLabel = parseReply(resp.Content)
	if strings.TrimSpace(message) == "" {
		g.logger.Warn("text generation returned empty message", "agent", req.Agent.ID)
		return "", "", false
	}
	return message, emotionLabel, true
}

func (g *Generator) cannedLine(req Request, sentiment emotion.Sentiment) string {
	areas := make([]string, 0, len(req.Policies))
	seen := map[string]bool{}
	for _, p := range req.Policies {
		if !seen[p.AreaTitle] {
			seen[p.AreaTitle] = true
			areas = append(areas, p.AreaTitle)
		}
	}
	return req.Agent.CannedLine(sentiment, agents.PatternContext{
		PolicyCount: len(req.Policies),
		PolicyAreas: areas,
	}, g.rng)
}

// classifyEmotion prefers the label the model itself emitted, then the
// remote classifier, then the stance/sentiment table.
func (g *Generator) classifyEmotion(ctx context.Context, req Request, message, modelLabel string, sentiment emotion.Sentiment) emotion.Emotion {
	if modelLabel != "" {
		if e := emotion.Parse(modelLabel); e != emotion.Neutral || strings.EqualFold(modelLabel, "neutral") {
			return e
		}
	}
	if g.classifier != nil {
		resp, err := g.classifier.Classify(ctx, message)
		if err == nil {
			return emotion.Parse(resp.Emotion)
		}
		g.logger.Warn("emotion classification failed, using stance table",
			"agent", req.Agent.ID, "error", err)
	}
	return emotion.Fallback(req.Agent.Stance, sentiment)
}

func agentDescription(agent agents.Profile, sentiment emotion.Sentiment) string {
	return fmt.Sprintf(
		"Name: %s\nRole: %s\nAge: %d\nPolitical stance: %s\nMain concerns: %s\nCurrent sentiment: %s",
		agent.Name, agent.Role, agent.Age, agent.Stance,
		strings.Join(agent.Concerns, ", "), sentiment)
}

func buildPrompt(req Request, sentiment emotion.Sentiment) string {
	descs := make([]string, len(req.Policies))
	for i, p := range req.Policies {
		descs[i] = fmt.Sprintf("%s (Tier %d) in the area of %s", p.Title, p.Tier, p.AreaTitle)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s with a %s political stance.\n",
		req.Agent.Name, req.Agent.Role, strings.ToLower(string(req.Agent.Stance)))
	fmt.Fprintf(&b, "You are %d years old and your main concerns are: %s.\n\n",
		req.Agent.Age, strings.Join(req.Agent.Concerns, ", "))
	fmt.Fprintf(&b, "You are reviewing the following policies:\n%s\n\n", strings.Join(descs, ", "))
	if req.AreaTitle != "" {
		fmt.Fprintf(&b, "The table is currently discussing the %s policy area; keep your reply focused on it.\n\n", req.AreaTitle)
	}
	fmt.Fprintf(&b, "Based on your political stance and concerns, your sentiment towards these policies is: %s.\n\n", sentiment)

	if history := trailing(req.History, contextWindow); len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Sender, m.Content)
		}
		b.WriteString("\n")
	}
	if req.RespondToUser != "" {
		fmt.Fprintf(&b, "You must respond directly to what the participant just said: %q\n\n", req.RespondToUser)
	}

	b.WriteString("Please provide a response that:\n")
	b.WriteString("1. Expresses your opinion on these policies\n")
	fmt.Fprintf(&b, "2. Reflects your %s sentiment\n", sentiment)
	b.WriteString("3. Mentions at least one of your concerns\n")
	b.WriteString("4. Is written in first person\n")
	b.WriteString("5. Is between 2-4 sentences\n")
	b.WriteString("6. Conveys an appropriate emotion (neutral, anger, compassion, frustration, enthusiasm, or concern)\n\n")
	b.WriteString("Format your response as a JSON object with two fields:\n")
	b.WriteString(`{"message": "Your response here", "emotion": "one of: neutral, anger, compassion, frustration, enthusiasm, concern"}`)
	return b.String()
}

func trailing(history []ContextMessage, n int) []ContextMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// parseReply extracts message and emotion from the model output. The
// model sometimes wraps the JSON in a markdown fence or ignores the
// format entirely; in the latter case the raw text is the message.
func parseReply(content string) (message, emotionLabel string) {
	jsonContent := content
	if m := codeFence.FindStringSubmatch(content); len(m) == 2 {
		jsonContent = m[1]
	}
	var parsed struct {
		Message string `json:"message"`
		Emotion string `json:"emotion"`
	}
	if err := json.Unmarshal([]byte(jsonContent), &parsed); err == nil && parsed.Message != "" {
		return parsed.Message, parsed.Emotion
	}
	return strings.TrimSpace(content), ""
}
