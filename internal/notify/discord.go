package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/qluke/genshin-builds/internal/builds"
	"github.com/qluke/genshin-builds/internal/domain"
)

// Discord caps embeds at 25 fields.
const maxEmbedFields = 25

const embedColor = 0x5865F2

type Discord struct {
	s         *discordgo.Session
	webhookID string
	token     string
}

// ParseWebhookURL extracts the id and token from a webhook URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("parse webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "webhooks" && i+2 < len(parts) {
			id, token = parts[i+1], parts[i+2]
			break
		}
	}
	if id == "" || token == "" {
		return "", "", errors.New("webhook url must look like https://discord.com/api/webhooks/<id>/<token>")
	}
	return id, token, nil
}

func NewDiscord(webhookURL string) (*Discord, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// Webhook execution is authenticated by the token in the URL.
	s, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	return &Discord{s: s, webhookID: id, token: token}, nil
}

func (d *Discord) Close() error {
	return d.s.Close()
}

// AnnounceExport posts a summary of a player's decoded builds.
func (d *Discord) AnnounceExport(p *domain.Profile) error {
	_, err := d.s.WebhookExecute(d.webhookID, d.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{ProfileEmbed(p)},
	})
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}

// ProfileEmbed renders one field per decoded build. Unknown characters are
// left out.
func ProfileEmbed(p *domain.Profile) *discordgo.MessageEmbed {
	name := p.Nickname
	if name == "" {
		name = p.UUID
	}
	e := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (%s)", name, p.UUID),
		Description: fmt.Sprintf("Region %s · AR %d · WL %d", p.Region, p.Level, p.WorldLevel),
		Color:       embedColor,
	}
	for _, b := range p.Builds {
		if b == nil {
			continue
		}
		if len(e.Fields) == maxEmbedFields {
			break
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s C%d Lv%d", b.Name, b.Constellation, b.Level),
			Value:  buildLine(b),
			Inline: true,
		})
	}
	return e
}

func buildLine(b *domain.DecodedBuild) string {
	parts := []string{}
	if b.Weapon.Name != "" {
		parts = append(parts, fmt.Sprintf("%s R%d", b.Weapon.Name, b.Weapon.Refinement))
	}
	for _, s := range b.Sets {
		parts = append(parts, s.Name)
	}
	parts = append(parts, fmt.Sprintf("CV %.1f", builds.CritValue(b)))
	return strings.Join(parts, " · ")
}
