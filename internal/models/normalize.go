package models

import "encoding/json"

// The backend's JSON is inconsistent across endpoints: documents carry either
// "id" or Mongo-style "_id", and admin status arrives as either an isAdmin
// boolean or a role string. All payloads are normalized into the canonical
// structs here, at the decode boundary, so the ambiguity never propagates
// upward.

// UnmarshalJSON normalizes id/_id and isAdmin/role aliases into the canonical shape.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
		Role    string `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.ID = raw.ID
	if a.ID == "" {
		a.ID = raw.MongoID
	}
	a.Email = raw.Email
	a.IsAdmin = raw.IsAdmin || raw.Role == "admin"
	return nil
}

// UnmarshalJSON normalizes id/_id and userId/user aliases into the canonical shape.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		UserID  string `json:"userId"`
		User    string `json:"user"`
		Name    string `json:"name"`
		IsChild bool   `json:"isChild"`
		Image   string `json:"imageUrl"`
		Avatar  string `json:"avatar"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	if p.ID == "" {
		p.ID = raw.MongoID
	}
	p.OwnerAccountID = raw.UserID
	if p.OwnerAccountID == "" {
		p.OwnerAccountID = raw.User
	}
	p.Name = raw.Name
	p.IsChild = raw.IsChild
	p.AvatarURL = raw.Image
	if p.AvatarURL == "" {
		p.AvatarURL = raw.Avatar
	}
	return nil
}

// UnmarshalJSON normalizes id/_id into the canonical shape.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string  `json:"id"`
		MongoID     string  `json:"_id"`
		Title       string  `json:"title"`
		Genre       string  `json:"genre"`
		Director    string  `json:"director"`
		Year        int     `json:"year"`
		Rating      float64 `json:"rating"`
		Duration    string  `json:"duration"`
		Description string  `json:"description"`
		ImageURL    string  `json:"imageUrl"`
		ImdbID      string  `json:"imdbId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = raw.ID
	if m.ID == "" {
		m.ID = raw.MongoID
	}
	m.Title = raw.Title
	m.Genre = raw.Genre
	m.Director = raw.Director
	m.Year = raw.Year
	m.Rating = raw.Rating
	m.Duration = raw.Duration
	m.Description = raw.Description
	m.ImageURL = raw.ImageURL
	m.ImdbID = raw.ImdbID
	return nil
}
