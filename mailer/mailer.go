package mailer

import (
	"fmt"
	"os"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailResponse struct {
	Status   int
	RespBody string
}

// SendResetPassword emails a password-reset link through SendGrid using
// a hermes-generated body.
func SendResetPassword(toEmail, token string) (*EmailResponse, error) {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	resetURL := fmt.Sprintf("%s/password/reset?token=%s", appURL, token)

	h := hermes.Hermes{
		Product: hermes.Product{
			Name: "VibeShared",
			Link: appURL,
		},
	}

	email := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"You requested a password reset for your VibeShared account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button to choose a new password. The link expires in one hour.",
					Button: hermes.Button{
						Color: "#635BFF",
						Text:  "Reset password",
						Link:  resetURL,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no action is required.",
			},
		},
	}

	emailBody, err := h.GenerateHTML(email)
	if err != nil {
		return nil, err
	}

	from := mail.NewEmail("VibeShared", os.Getenv("SENDGRID_FROM"))
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, "Reset your password", to, "", emailBody)

	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return nil, err
	}
	return &EmailResponse{Status: response.StatusCode, RespBody: response.Body}, nil
}
