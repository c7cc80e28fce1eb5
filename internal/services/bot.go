package services

import (
	"boltfarm/internal/models"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// Bot validates Telegram mini-app init data. Identity itself is an
// external collaborator: the engine only ever consumes the stable
// account id carried here.
type Bot struct {
	token string
}

func NewBot(token string) (*Bot, error) {
	return &Bot{token}, nil
}

func (bot *Bot) ValidateInitData(dataStr string) (*models.AccountFromAuth, error) {
	if err := initdata.Validate(dataStr, bot.token, 0); err != nil {
		return nil, err
	}

	data, err := initdata.Parse(dataStr)
	if err != nil {
		return nil, err
	}

	return &models.AccountFromAuth{
		ID:           data.User.ID,
		Username:     data.User.Username,
		FirstName:    data.User.FirstName,
		LastName:     data.User.LastName,
		LanguageCode: data.User.LanguageCode,
		PhotoURL:     data.User.PhotoURL,
		IsPremium:    data.User.IsPremium,
	}, nil
}
