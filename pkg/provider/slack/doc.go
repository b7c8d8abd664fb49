// Package slack delivers notifications to a Slack incoming webhook.
package slack
