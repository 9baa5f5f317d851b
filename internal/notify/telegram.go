package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

// TelegramNotifier шлёт сообщения основному преподавателю лекции.
// Ошибки доставки не влияют на результат операции.
type TelegramNotifier struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewTelegramNotifier(token string, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: b, logger: logger}, nil
}

func (n *TelegramNotifier) BookingCreated(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error {
	text := fmt.Sprintf(
		"📩 Новая запись #%d\n\n📚 %s\n📅 %s\n🕐 %s-%s\n\nЗапись ожидает подтверждения.",
		booking.ID, lecture.Title,
		booking.Date.Format("02.01.2006"),
		booking.StartTime, booking.EndTime,
	)
	return n.send(ctx, lecture, text)
}

func (n *TelegramNotifier) BookingConfirmed(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error {
	text := fmt.Sprintf(
		"✅ Запись #%d на «%s» %s %s-%s подтверждена.",
		booking.ID, lecture.Title,
		booking.Date.Format("02.01.2006"),
		booking.StartTime, booking.EndTime,
	)
	return n.send(ctx, lecture, text)
}

func (n *TelegramNotifier) BookingCancelled(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error {
	text := fmt.Sprintf(
		"🚫 Запись #%d на «%s» %s %s-%s отменена.",
		booking.ID, lecture.Title,
		booking.Date.Format("02.01.2006"),
		booking.StartTime, booking.EndTime,
	)
	return n.send(ctx, lecture, text)
}

func (n *TelegramNotifier) send(ctx context.Context, lecture *model.Lecture, text string) error {
	if lecture.TeacherChatID == nil {
		// преподаватель не привязал чат
		return nil
	}

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *lecture.TeacherChatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram notification: %w", err)
	}

	return nil
}
