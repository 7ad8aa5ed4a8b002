package models

import "time"

// MyDetailSlot is the primary key of the only my_details row.
const MyDetailSlot = 1

// MyDetail holds the site owner's contact and profile links. Exactly one row exists
// once it has been saved.
type MyDetail struct {
	CVLink        string    `db:"cv_link" json:"cvLink"`
	YoutubeLink   string    `db:"youtube_link" json:"youtubeLink"`
	LinkedinLink  string    `db:"linkedin_link" json:"linkedinLink"`
	GithubLink    string    `db:"github_link" json:"githubLink"`
	FacebookLink  string    `db:"facebook_link" json:"facebookLink"`
	InstagramLink string    `db:"instagram_link" json:"instagramLink"`
	Email         string    `db:"email" json:"email"`
	ContactNumber string    `db:"contact_number" json:"contactNumber"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// MyDetailUpdate merges the non-nil fields into the stored record.
type MyDetailUpdate struct {
	CVLink        *string
	YoutubeLink   *string
	LinkedinLink  *string
	GithubLink    *string
	FacebookLink  *string
	InstagramLink *string
	Email         *string
	ContactNumber *string
	UpdatedAt     time.Time
}
