package maildrop

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/emersion/go-imap/v2"

	"bulletin-engine/internal/config"
	"bulletin-engine/internal/ingest"
	"bulletin-engine/internal/secrets"
)

// Fetcher is the mailbox ingest source: unseen messages matching the
// configured subjects carry the same marked-up announcement text the
// operator would paste. Matched messages are marked seen; everything else
// is left alone.
type Fetcher struct {
	Cfg config.Mail
}

func (f *Fetcher) Name() string { return "maildrop" }

func (f *Fetcher) Fetch(ctx context.Context) (ingest.Result, error) {
	res := ingest.Result{Source: f.Name()}

	pw, err := secrets.GetMailPassword(secrets.MailKeyringAccount(f.Cfg))
	if err != nil {
		return res, err
	}

	addr := fmt.Sprintf("%s:%d", f.Cfg.IMAPHost, f.Cfg.IMAPPort)
	c, err := dialAndLogin(ctx, addr, f.Cfg.IMAPHost, f.Cfg.Username, pw)
	if err != nil {
		return res, err
	}
	defer logoutAndClose(c)

	if err := selectMailbox(c, f.Cfg.Mailbox); err != nil {
		return res, err
	}

	msgs, err := fetchUnseen(ctx, c, f.Cfg.MaxMessages)
	if err != nil {
		return res, err
	}

	var matched []imap.UID
	for _, m := range msgs {
		if !subjectMatches(m.Subject, f.Cfg.SubjectAny) {
			continue
		}
		body := htmlBody(m.Raw)
		if body == "" {
			log.Printf("[maildrop] uid=%v subject=%q has no html part, skipping", m.UID, m.Subject)
			continue
		}
		res.Texts = append(res.Texts, body)
		matched = append(matched, m.UID)
	}

	if err := markSeen(c, matched); err != nil {
		log.Printf("[maildrop] mark seen: %v", err)
	}
	return res, nil
}

// subjectMatches with an empty filter accepts everything.
func subjectMatches(subject string, any []string) bool {
	if len(any) == 0 {
		return true
	}
	s := strings.ToLower(subject)
	for _, want := range any {
		if strings.Contains(s, strings.ToLower(want)) {
			return true
		}
	}
	return false
}
