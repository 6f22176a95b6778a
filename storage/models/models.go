package models

import (
	"encoding/json"
	"log"
	"strconv"
	"time"
)

type Post struct {
	Id        int64     `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Permalink is the stable path addressing the post.
func (p Post) Permalink() string {
	return "/posts/" + strconv.FormatInt(p.Id, 10) + ".html"
}

func (p *Post) ToJson() []byte {
	j, err := json.Marshal(p)
	if err != nil {
		log.Fatalf("Failed to dump post to json: %s", err.Error())
	}
	return j
}
