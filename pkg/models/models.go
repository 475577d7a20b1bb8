package models

import (
	"time"
)

// Domain models matching the stores in db/migrations. Profiles are persisted as a single
// JSON document per account, so every json tag below is part of the stored format.

type Account struct {
	ID           string    `json:"_id" db:"id"`
	Name         string    `json:"name" db:"name" validate:"required"`
	Email        string    `json:"email" db:"email" validate:"required,email"`
	Avatar       string    `json:"avatar" db:"avatar"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Created      time.Time `json:"date" db:"created"`
}

// ProfileOwner is the subset of an account that is joined into profile reads.
type ProfileOwner struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Experience struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        Date   `json:"from"`
	To          Date   `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	ID           string `json:"_id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         Date   `json:"from"`
	To           Date   `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

type Profile struct {
	ID             string        `json:"_id"`
	AccountID      string        `json:"-"`
	User           *ProfileOwner `json:"user,omitempty"`
	Company        string        `json:"company,omitempty"`
	Website        string        `json:"website,omitempty"`
	Location       string        `json:"location,omitempty"`
	Bio            string        `json:"bio,omitempty"`
	Status         string        `json:"status"`
	GitHubUsername string        `json:"githubusername,omitempty"`
	Skills         []string      `json:"skills"`
	Social         Social        `json:"social"`
	Experience     []Experience  `json:"experience"`
	Education      []Education   `json:"education"`
	Updated        time.Time     `json:"date"`
}

// Document returns a copy of the profile suitable for persisting: the joined owner is
// dropped and nil lists become empty so the stored document always carries them.
func (p Profile) Document() Profile {
	p.User = nil
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	return p
}

// AddExperience puts e at the front of the experience list.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = append([]Experience{e}, p.Experience...)
}

// RemoveExperience drops the entry with the given id. Unknown ids leave the list as is
// and report false.
func (p *Profile) RemoveExperience(id string) bool {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// AddEducation puts e at the front of the education list.
func (p *Profile) AddEducation(e Education) {
	p.Education = append([]Education{e}, p.Education...)
}

// RemoveEducation drops the entry with the given id. Unknown ids leave the list as is
// and report false.
func (p *Profile) RemoveEducation(id string) bool {
	for i := range p.Education {
		if p.Education[i].ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}
