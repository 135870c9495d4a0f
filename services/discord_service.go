package services

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"permafrost/models"
)

// DiscordBotService pushes alert firings to an ops channel. Like the
// narrative generator it is strictly downstream of the numbers: a missing
// token or a failed send never affects an evaluation.
type DiscordBotService struct {
	session   *discordgo.Session
	channelID string
	enabled   bool
}

func NewDiscordBotService(token, channelID string) (*DiscordBotService, error) {
	if token == "" {
		log.Println("Discord bot token not provided, Discord notifications disabled")
		return &DiscordBotService{enabled: false}, nil
	}
	if channelID == "" {
		log.Println("Discord channel ID not provided, Discord notifications disabled")
		return &DiscordBotService{enabled: false}, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	log.Printf("Discord bot connected, channel: %s", channelID)
	return &DiscordBotService{
		session:   session,
		channelID: channelID,
		enabled:   true,
	}, nil
}

func (d *DiscordBotService) Enabled() bool {
	return d != nil && d.enabled
}

func (d *DiscordBotService) Close() {
	if d.Enabled() && d.session != nil {
		log.Println("Closing Discord bot connection...")
		d.session.Close()
	}
}

// SendAlertEvent posts one alert firing as an embed.
func (d *DiscordBotService) SendAlertEvent(event *models.AlertEvent) error {
	if !d.Enabled() {
		return fmt.Errorf("Discord bot not enabled")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🚨 %s", event.RuleName),
		Description: event.Message,
		Color:       0xcc3300,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Scenario", Value: event.ScenarioID, Inline: true},
			{Name: "Strategy", Value: event.StrategyName, Inline: true},
			{Name: "Metric", Value: event.Metric, Inline: true},
			{Name: "Threshold", Value: fmt.Sprintf("%.2f", event.Threshold), Inline: true},
			{Name: "Observed", Value: fmt.Sprintf("%.2f", event.Observed), Inline: true},
		},
		Timestamp: event.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}

	if _, err := d.session.ChannelMessageSendEmbed(d.channelID, embed); err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}
	return nil
}
