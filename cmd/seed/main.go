package main

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/Truella/Framez/internal/client"
	"github.com/Truella/Framez/internal/config"
	"github.com/Truella/Framez/internal/feed"
	"github.com/Truella/Framez/internal/session"
)

const password = "password123"

type seededUser struct {
	user feed.User
	c    *client.Client
}

func main() {
	base := config.GetEnv("SEED_API_URL", "http://localhost:8080")
	nUsers, _ := strconv.Atoi(config.GetEnv("SEED_USERS", "10"))
	nPosts, _ := strconv.Atoi(config.GetEnv("SEED_POSTS_PER_USER", "3"))
	gofakeit.Seed(time.Now().UnixNano())
	ctx := context.Background()

	var users []seededUser
	for i := 0; i < nUsers; i++ {
		su, err := signUp(ctx, base, i)
		if err != nil {
			log.Printf("signup #%d: %v", i, err)
			continue
		}
		users = append(users, su)
		log.Printf("signup: @%s <%s>", su.user.Username, su.user.Email)
	}
	if len(users) == 0 {
		log.Fatal("no users created, aborting seeding process")
	}

	var posts []feed.Post
	for _, su := range users {
		for j := 0; j < nPosts; j++ {
			p, err := su.c.CreatePost(ctx, su.user.ID, gofakeit.Sentence(gofakeit.Number(4, 24)), "")
			if err != nil {
				log.Printf("post by @%s: %v", su.user.Username, err)
				continue
			}
			posts = append(posts, p)
		}
	}
	log.Printf("created %d posts", len(posts))

	var likes, saves int
	for _, su := range users {
		for _, p := range posts {
			if gofakeit.Number(1, 100) <= 30 {
				if _, err := su.c.ToggleLike(ctx, su.user.ID, p.ID); err != nil {
					log.Printf("like %s: %v", p.ID, err)
				} else {
					likes++
				}
			}
			if gofakeit.Number(1, 100) <= 10 {
				if _, err := su.c.ToggleSave(ctx, su.user.ID, p.ID); err != nil {
					log.Printf("save %s: %v", p.ID, err)
				} else {
					saves++
				}
			}
		}
	}
	log.Printf("seeded %d users, %d posts, %d likes, %d saves", len(users), len(posts), likes, saves)
}

func signUp(ctx context.Context, base string, i int) (seededUser, error) {
	username := strings.ToLower(gofakeit.Username())
	username = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return -1
	}, username)
	username += "_" + strconv.Itoa(i)

	c := client.New(base)
	u, token, err := c.SignUp(ctx, session.SignUpInput{
		Email:           username + "@" + gofakeit.DomainName(),
		Password:        password,
		ConfirmPassword: password,
		Username:        username,
		FullName:        gofakeit.Name(),
	})
	if err != nil {
		return seededUser{}, err
	}
	c.SetToken(token)
	return seededUser{user: u, c: c}, nil
}
