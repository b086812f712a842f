package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the extended per-user document stored in Mongo, keyed by the
// owning user's id. The user reference is set once at creation and never
// reassigned.
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"user" json:"-"`
	User           *UserRef           `bson:"-" json:"user,omitempty"` // populated in responses only
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Skills         []string           `bson:"skills,omitempty" json:"skills"`
	Social         *Social            `bson:"social,omitempty" json:"social,omitempty"`
	Experience     []Experience       `bson:"experience" json:"experience"`
	Education      []Education        `bson:"education" json:"education"`
	Date           time.Time          `bson:"date" json:"date"`
}

// UserRef carries the fields of the owning user that profile responses embed.
type UserRef struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
}

type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

type Experience struct {
	ID          string `bson:"_id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Company     string `bson:"company" json:"company"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
	From        string `bson:"from" json:"from"`
	To          string `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool   `bson:"current" json:"current"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           string `bson:"_id" json:"id"`
	School       string `bson:"school" json:"school"`
	Degree       string `bson:"degree" json:"degree"`
	FieldOfStudy string `bson:"fieldofstudy" json:"fieldofstudy"`
	From         string `bson:"from" json:"from"`
	To           string `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool   `bson:"current" json:"current"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`
}

// AddExperience prepends e so the newest entry is always first.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = append([]Experience{e}, p.Experience...)
}

// RemoveExperience removes the entry with the given id. It reports whether an
// entry was found; an unknown id removes nothing.
func (p *Profile) RemoveExperience(id string) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// AddEducation prepends e so the newest entry is always first.
func (p *Profile) AddEducation(e Education) {
	p.Education = append([]Education{e}, p.Education...)
}

// RemoveEducation removes the entry with the given id. It reports whether an
// entry was found; an unknown id removes nothing.
func (p *Profile) RemoveEducation(id string) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

// SplitSkills turns a comma-separated skills string into a trimmed slice,
// preserving order.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		skills = append(skills, strings.TrimSpace(part))
	}
	return skills
}

// UpsertProfileRequest is the flat input for create/update. Empty fields are
// treated as absent: they are never written, so an update only touches what
// the caller sent.
type UpsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (r *UpsertProfileRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Status) == "" {
		errs = append(errs, FieldError{Msg: "Status is required", Param: "status"})
	}
	if strings.TrimSpace(r.Skills) == "" {
		errs = append(errs, FieldError{Msg: "Skills is required", Param: "skills"})
	}
	return errs
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r *ExperienceRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, FieldError{Msg: "Title is required", Param: "title"})
	}
	if strings.TrimSpace(r.Company) == "" {
		errs = append(errs, FieldError{Msg: "Company is required", Param: "company"})
	}
	if strings.TrimSpace(r.From) == "" {
		errs = append(errs, FieldError{Msg: "From date is required", Param: "from"})
	}
	return errs
}

type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r *EducationRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.School) == "" {
		errs = append(errs, FieldError{Msg: "School is required", Param: "school"})
	}
	if strings.TrimSpace(r.Degree) == "" {
		errs = append(errs, FieldError{Msg: "Degree is required", Param: "degree"})
	}
	if strings.TrimSpace(r.FieldOfStudy) == "" {
		errs = append(errs, FieldError{Msg: "Field of study is required", Param: "fieldofstudy"})
	}
	if strings.TrimSpace(r.From) == "" {
		errs = append(errs, FieldError{Msg: "From date is required", Param: "from"})
	}
	return errs
}
