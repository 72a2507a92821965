package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a tidied copy plus everything wrong or
// suspicious about it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Mail.SubjectAny = trimList(out.Mail.SubjectAny)
	out.Store.Driver = strings.ToLower(strings.TrimSpace(out.Store.Driver))

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Store.Driver {
	case "sqlite":
		if strings.TrimSpace(out.Store.Path) == "" {
			res.addErr("store.path is required when store.driver=sqlite")
		}
	case "postgres":
		if strings.TrimSpace(out.Store.DSN) == "" {
			res.addErr("store.dsn is required when store.driver=postgres")
		}
	case "memory":
		res.addWarn("store.driver=memory keeps nothing across restarts")
	default:
		res.addErr("store.driver must be sqlite, postgres, or memory (got %q)", out.Store.Driver)
	}

	if out.Importing.WritesPerSecond < 0 {
		res.addErr("importing.writes_per_second must be >= 0 (0 disables pacing)")
	}
	if out.Importing.ContactBatchSize < 0 {
		res.addErr("importing.contact_batch_size must be >= 0 (0 uses the default)")
	}
	if out.Importing.SourceTimeoutSeconds < 0 {
		res.addErr("importing.source_timeout_seconds must be >= 0")
	}

	// mail required fields if enabled (password not required here; it's in
	// the keychain)
	if out.Mail.Enabled {
		if strings.TrimSpace(out.Mail.IMAPHost) == "" {
			res.addErr("mail.imap_host is required when mail.enabled=true")
		}
		if out.Mail.IMAPPort == 0 {
			res.addErr("mail.imap_port is required when mail.enabled=true")
		}
		if strings.TrimSpace(out.Mail.Username) == "" {
			res.addErr("mail.username is required when mail.enabled=true")
		}
		if strings.TrimSpace(out.Mail.Mailbox) == "" {
			res.addErr("mail.mailbox is required when mail.enabled=true")
		}
		if len(out.Mail.SubjectAny) == 0 {
			res.addWarn("mail.subject_any is empty; every unseen message will be treated as announcement text.")
		}
		if out.Mail.PollSeconds <= 0 {
			res.addErr("mail.poll_seconds must be > 0 when mail.enabled=true")
		} else if out.Mail.PollSeconds < 30 {
			res.addWarn("mail.poll_seconds is very low (%d) and may upset the IMAP server.", out.Mail.PollSeconds)
		}
	}

	return out, res
}
