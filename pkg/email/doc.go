// Package email provides a provider-agnostic interface for sending
// transactional emails, with a Postmark client for production delivery and a
// development sender that writes messages to disk.
//
// All implementations validate parameters before sending and report failures
// through sentinel errors, so application code never depends on a specific
// provider.
//
// Basic usage:
//
//	cfg := email.Config{
//	    PostmarkServerToken:  "server-token",
//	    PostmarkAccountToken: "account-token",
//	    SenderEmail:          "noreply@gymgo.app",
//	    SupportEmail:         "soporte@gymgo.app",
//	}
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "member@example.com",
//	    Subject:  "Tu membresía vence pronto",
//	    BodyHTML: body,
//	    Tag:      "membership-expiry",
//	})
package email
