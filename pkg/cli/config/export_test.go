package config

import "log/slog"

var ParseLevel = parseLevel

func NewSlackForTest(webhookURL, channel, minSeverity string) *Slack {
	return &Slack{
		webhookURL:  webhookURL,
		channel:     channel,
		minSeverity: minSeverity,
	}
}

func NewAuthForTest(secret, issuer, noAuthSub string) *Auth {
	return &Auth{secret: secret, issuer: issuer, noAuthSub: noAuthSub}
}

func NewConsoleForTest(path string, tableKeys, template []string) *Console {
	return &Console{path: path, tableKeys: tableKeys, template: template}
}

func Redact(groups []string, a slog.Attr) slog.Attr {
	return redactor()(groups, a)
}
