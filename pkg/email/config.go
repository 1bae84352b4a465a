package email

// Config holds email provider configuration. The Postmark tokens are optional
// so development environments can run with the dev sender; SenderEmail and
// SupportEmail establish the sender identity and reply-to behavior for all
// outbound mail.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"EMAIL_SENDER,required"`
	SupportEmail         string `env:"EMAIL_SUPPORT,required"`
	DevOutputDir         string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}
