package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"social-feed/internal/service"
)

const demoPassword = "password123"

type demoUser struct {
	firstName  string
	lastName   string
	email      string
	location   string
	occupation string
	posts      []string
}

var demoUsers = []demoUser{
	{
		firstName:  "Steve",
		lastName:   "Ralph",
		email:      "steve.ralph@example.com",
		location:   "New York, CA",
		occupation: "Degenerate",
		posts:      []string{"Some really long random description"},
	},
	{
		firstName:  "Whatcha",
		lastName:   "Doing",
		email:      "whatcha.doing@example.com",
		location:   "Korea, CA",
		occupation: "Hacker",
		posts:      []string{"Another really long random description. This one is longer than the previous one."},
	},
	{
		firstName:  "Jane",
		lastName:   "Doe",
		email:      "jane.doe@example.com",
		location:   "Utah, CA",
		occupation: "Hacker",
		posts: []string{
			"This is the last really long random description. This one is longer than the previous one.",
			"Morning run done.",
		},
	},
}

// seedDemo registers the demo users with their posts. Users that already
// exist are left untouched, so running it twice does not duplicate posts.
// Each demo user befriends the ones listed before it, including those that
// were already registered.
func seedDemo(ctx context.Context, auth service.AuthService, posts service.PostService, logger *logrus.Logger) error {
	var friends []string
	for _, d := range demoUsers {
		user, err := auth.Register(ctx, service.RegisterInput{
			FirstName:  d.firstName,
			LastName:   d.lastName,
			Email:      d.email,
			Password:   demoPassword,
			Friends:    append([]string(nil), friends...),
			Location:   d.location,
			Occupation: d.occupation,
		})
		if errors.Is(err, service.ErrDuplicateEmail) {
			entry := logger.WithField("email", d.email)
			existing, loginErr := auth.Login(ctx, d.email, demoPassword)
			if loginErr != nil {
				entry.WithError(loginErr).Warn("demo user exists with another password, not befriending it")
				continue
			}
			friends = append(friends, existing.User.ID)
			entry.Info("demo user exists, skipping")
			continue
		}
		if err != nil {
			return fmt.Errorf("register %s: %w", d.email, err)
		}
		friends = append(friends, user.ID)

		for _, text := range d.posts {
			if _, err := posts.CreatePost(ctx, service.CreatePostInput{UserID: user.ID, Description: text}); err != nil {
				return fmt.Errorf("create post for %s: %w", d.email, err)
			}
		}
		logger.WithFields(logrus.Fields{
			"email": d.email,
			"posts": len(d.posts),
		}).Info("seeded demo user")
	}
	return nil
}
