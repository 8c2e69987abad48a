package partner

import "strings"

// Record is one partner of the directory with its recipients and match keys.
type Record struct {
	Name            string
	Emails          []string
	SearchableFull  string
	SearchableSigle string
}

// HasSigle reports whether the record carries a parenthesized short form.
func (r Record) HasSigle() bool {
	return r.SearchableSigle != ""
}

// AddEmails appends addresses not yet present, compared case-insensitively.
func (r *Record) AddEmails(emails ...string) {
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" || r.hasEmail(email) {
			continue
		}
		r.Emails = append(r.Emails, email)
	}
}

func (r Record) hasEmail(email string) bool {
	for _, existing := range r.Emails {
		if strings.EqualFold(existing, email) {
			return true
		}
	}
	return false
}

// Route attributes one generated file to one partner.
type Route struct {
	FileName        string
	FilePath        string
	PartnerName     string
	RecipientEmails []string
}
