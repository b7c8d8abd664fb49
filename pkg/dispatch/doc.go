// Package dispatch is the notification engine facade: it renders templates
// into notifications, escalates their priority, admits them to a bounded
// priority queue and delivers them through registered providers with a
// worker pool.
//
// Producers call Send, which never blocks on delivery. Workers dequeue by
// priority, resolve a provider through the channel router and call Send on
// it under a timeout with panic recovery, so one misbehaving provider never
// takes a worker down. Failed deliveries are retried as fresh notifications
// with exponential backoff until the attempt budget runs out.
//
// Minimal usage:
//
//	d := dispatch.New(dispatch.Config{Workers: 4}, dispatch.WithStore(store))
//	d.Templates().Register(template.Template{ID: "welcome", Channel: notification.ChannelEmail, Body: "Hi {name}"})
//	d.Routes().AddRoute(notification.ChannelEmail, "postmark")
//	d.RegisterProvider("postmark", emailProvider)
//
//	if err := d.Start(ctx); err != nil { ... }
//	defer d.Stop()
//
//	n, err := d.Send(ctx, dispatch.SendParams{
//		TemplateID:  "welcome",
//		RecipientID: "user-1",
//		Data:        map[string]string{"name": "Ana"},
//	})
package dispatch
