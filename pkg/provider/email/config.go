package email

type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`  // PostmarkServerToken authenticates transactional sends.
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"` // PostmarkAccountToken authenticates account-level API calls.
	SenderEmail          string `env:"EMAIL_SENDER,required"`           // SenderEmail is the From address.
	ReplyToEmail         string `env:"EMAIL_REPLY_TO"`                  // ReplyToEmail is the optional Reply-To address.
}
