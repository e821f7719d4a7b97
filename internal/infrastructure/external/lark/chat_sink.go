// Package lark posts rendered station reports to a Lark chat.
package lark

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/station-report/internal/application/port"
)

// messageSender is the subset of MessageAPI the sink needs
type messageSender interface {
	SendMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error)
}

// ChatSink delivers report text to a Lark group or user in place of the
// desktop clipboard, so duty staff can paste it from the chat
type ChatSink struct {
	sender        messageSender
	receiveIDType string
	receiveID     string
	logger        *zap.Logger
}

// NewChatSink creates a sink posting to receiveID. receiveIDType is one of
// the Lark id types ("chat_id", "open_id", "user_id", "email"); "" means chat_id.
func NewChatSink(api *MessageAPI, receiveIDType, receiveID string, logger *zap.Logger) *ChatSink {
	return newChatSink(api, receiveIDType, receiveID, logger)
}

func newChatSink(sender messageSender, receiveIDType, receiveID string, logger *zap.Logger) *ChatSink {
	if receiveIDType == "" {
		receiveIDType = "chat_id"
	}
	return &ChatSink{
		sender:        sender,
		receiveIDType: receiveIDType,
		receiveID:     receiveID,
		logger:        logger,
	}
}

// WriteText implements port.ClipboardSink
func (s *ChatSink) WriteText(ctx context.Context, text string) error {
	if s.receiveID == "" {
		return fmt.Errorf("lark receive id is not configured")
	}

	content, err := textContent(text)
	if err != nil {
		return err
	}

	messageID, err := s.sender.SendMessage(ctx, s.receiveIDType, s.receiveID, "text", content)
	if err != nil {
		return fmt.Errorf("failed to post report to lark: %w", err)
	}

	s.logger.Info("Report posted to lark",
		zap.String("message_id", messageID),
		zap.String("receive_id_type", s.receiveIDType))
	return nil
}

// textContent builds the JSON body of a Lark text message
func textContent(text string) (string, error) {
	b, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal message content: %w", err)
	}
	return string(b), nil
}

var _ port.ClipboardSink = (*ChatSink)(nil)
