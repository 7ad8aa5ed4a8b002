// Package api holds the request and response schemas of the catalog HTTP API.
package api

import "github.com/google/uuid"

type CreateTitleReq struct {
	Name        string `json:"name" validate:"notblank,max=256"`
	Description string `json:"description"`
}

type UpdateTitleReq struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        *string   `json:"name" validate:"omitempty,notblank,max=256"`
	Description *string   `json:"description"`
}

type CreateClassReq struct {
	TitleID     uuid.UUID `json:"titleId" validate:"required"`
	Name        string    `json:"name" validate:"notblank,max=256"`
	Description string    `json:"description"`
}

type UpdateClassReq struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        *string   `json:"name" validate:"omitempty,notblank,max=256"`
	Description *string   `json:"description"`
}

type CreateSubjectReq struct {
	ClassID     uuid.UUID `json:"classId" validate:"required"`
	Name        string    `json:"name" validate:"notblank,max=256"`
	Description string    `json:"description"`
}

type UpdateSubjectReq struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        *string   `json:"name" validate:"omitempty,notblank,max=256"`
	Description *string   `json:"description"`
}

type CreateChapterReq struct {
	SubjectID   uuid.UUID `json:"subjectId" validate:"required"`
	Name        string    `json:"name" validate:"notblank,max=256"`
	DriveLink   string    `json:"driveLink" validate:"drivelink"`
	Description string    `json:"description"`
}

type UpdateChapterReq struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        *string   `json:"name" validate:"omitempty,notblank,max=256"`
	DriveLink   *string   `json:"driveLink" validate:"omitempty,drivelink"`
	Description *string   `json:"description"`
}

// MyDetailReq is a partial my-details record. Absent fields keep their stored value.
type MyDetailReq struct {
	CVLink        *string `json:"cvLink" validate:"omitempty,weblink"`
	YoutubeLink   *string `json:"youtubeLink" validate:"omitempty,weblink"`
	LinkedinLink  *string `json:"linkedinLink" validate:"omitempty,weblink"`
	GithubLink    *string `json:"githubLink" validate:"omitempty,weblink"`
	FacebookLink  *string `json:"facebookLink" validate:"omitempty,weblink"`
	InstagramLink *string `json:"instagramLink" validate:"omitempty,weblink"`
	Email         *string `json:"email" validate:"omitempty,contactemail"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,max=32"`
}

type ChapterPreviewRsp struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	DriveLink  string    `json:"driveLink"`
	PreviewURL string    `json:"previewUrl"`
}

type MessageRsp struct {
	Message string `json:"message"`
}
