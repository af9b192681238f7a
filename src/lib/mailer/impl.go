package mailer

import (
	"ems/src/config"
	"ems/src/lib"
	"ems/src/types"
	"log"

	awslib "ems/src/lib/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Send delivers a templated message through SMTP locally and SES
// everywhere else. Delivery failures are logged and swallowed; email is
// best-effort and must never fail the calling operation.
func Send(input *lib.SendMailInput) {
	env := config.API_ENV
	if env == string(types.Local) || env == string(types.Test) {
		if err := lib.SendMail(input); err != nil {
			log.Printf("Error sending email to %v: %s\n", input.To, err.Error())
		}
		return
	}
	message := &sestypes.Message{
		Subject: &sestypes.Content{Data: aws.String(input.Subject)},
		Body:    &sestypes.Body{Text: &sestypes.Content{Data: aws.String(input.Body)}},
	}
	if input.Html {
		message.Body = &sestypes.Body{Html: &sestypes.Content{Data: aws.String(input.Body)}}
	}
	destination := &sestypes.Destination{
		ToAddresses:  input.To,
		CcAddresses:  input.Cc,
		BccAddresses: input.Bcc,
	}
	if err := awslib.SESSendMessage(aws.String(input.From), destination, message); err != nil {
		log.Printf("Error sending email to %v: %s\n", input.To, err.Error())
	}
}
