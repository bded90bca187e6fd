package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/travel-booking/internal/models"
)

// MessageSender is the part of *discordgo.Session the notifier needs.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

func NewDiscordNotifier(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordSession creates a bot session for the given token.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	return discordgo.New("Bot " + token)
}

func (n *DiscordNotifier) NotifyBooking(booking models.Booking, pkg models.TravelPackage) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, BookingMessage(booking, pkg)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func BookingMessage(booking models.Booking, pkg models.TravelPackage) string {
	requests := ""
	if booking.SpecialRequests != nil {
		requests = fmt.Sprintf("\n**Special requests:** %s", *booking.SpecialRequests)
	}

	return fmt.Sprintf("🧳 **New Booking #%d**\n**Destination:** %s\n**Guest:** %s (%s)\n**Travel date:** %s\n**Travelers:** %d\n**Status:** %s%s",
		booking.ID,
		pkg.Destination,
		booking.UserName,
		booking.Email,
		booking.TravelDate.String(),
		booking.Travelers,
		booking.Status,
		requests,
	)
}
