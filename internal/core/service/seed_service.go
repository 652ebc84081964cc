package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/core/ports"
)

const sampleBucket = "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/"

const chromecastBlurb = "Introducing Chromecast. The easiest way to enjoy online video and music on your TV."

type sampleMovie struct {
	title, description, file, subtitle string
}

var sampleCatalog = []sampleMovie{
	{"Big Buck Bunny", "Big Buck Bunny tells the story of a giant rabbit with a heart bigger than himself. When one sunny day three rodents rudely harass him, something snaps... and the rabbit ain't no bunny anymore!", "BigBuckBunny", "Animation, Short"},
	{"Elephant Dream", "The first Blender Open Movie from 2006.", "ElephantsDream", "Animation, Sci-Fi"},
	{"For Bigger Blazes", "HBO GO now icons icons icons. Icons Icons Icons Icons Icons Icons Icons Icons Icons Icons.", "ForBiggerBlazes", "Advertisement"},
	{"For Bigger Escape", chromecastBlurb, "ForBiggerEscape", "Advertisement"},
	{"For Bigger Fun", chromecastBlurb, "ForBiggerFun", "Advertisement"},
	{"For Bigger Joyrides", chromecastBlurb, "ForBiggerJoyrides", "Advertisement"},
	{"For Bigger Meltdowns", chromecastBlurb, "ForBiggerMeltdowns", "Advertisement"},
	{"Sintel", "Sintel is an independently produced short film, initiated by the Blender Foundation as a means to further improve and validate the free/open source 3D creation suite Blender.", "Sintel", "Animation, Fantasy"},
	{"Subaru Outback On Street And Dirt", "Smoking Tire takes the all-new Subaru Outback to the wide open spaces to see what it's made of.", "SubaruOutbackOnStreetAndDirt", "Automotive"},
	{"Tears of Steel", "Tears of Steel was realized with crowd-funding by users of the open source 3D creation tool Blender.", "TearsOfSteel", "Sci-Fi, Drama"},
	{"Volkswagen GTI Review", "The Smoking Tire heads out to California to test the Volkswagen GTI.", "VolkswagenGTIReview", "Automotive"},
	{"We Are Going On Bullrun", "The Smoking Tire is going on the 2010 Bullrun Live Rally in a 2011 Dodge Charger SRT8.", "WeAreGoingOnBullrun", "Automotive"},
	{"What care can you get for a grand?", "The Smoking Tire meets up with Chris and Jorge from CJP Power.", "WhatCarCanYouGetForAGrand", "Automotive"},
}

// SeedOptions controls the initial accounts.
type SeedOptions struct {
	AdminPassword string
	BcryptCost    int
}

// SeedResult reports what a seed run inserted.
type SeedResult struct {
	UsersCreated  []string
	UsersSkipped  []string
	MoviesCreated int
}

// SeedService populates an empty database with demo data.
type SeedService struct {
	users  ports.UserRepository
	movies ports.MovieRepository
	logger zerolog.Logger
}

func NewSeedService(users ports.UserRepository, movies ports.MovieRepository, logger zerolog.Logger) *SeedService {
	return &SeedService{users: users, movies: movies, logger: logger}
}

// Seed creates the admin and test accounts when missing and loads the
// sample catalog when the catalog is empty. It is safe to run repeatedly.
func (s *SeedService) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	if opts.AdminPassword == "" {
		return nil, domain.Validation("Admin password is required.")
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	res := &SeedResult{}
	accounts := []struct {
		username, password, email string
		role                      domain.Role
	}{
		{"admin", opts.AdminPassword, "admin@movieapp.com", domain.RoleAdmin},
		{"testuser", "user123", "test@movieapp.com", domain.RoleUser},
	}

	for _, a := range accounts {
		created, err := s.ensureUser(ctx, a.username, a.password, a.email, a.role, opts.BcryptCost)
		if err != nil {
			return nil, err
		}
		if created {
			res.UsersCreated = append(res.UsersCreated, a.username)
		} else {
			res.UsersSkipped = append(res.UsersSkipped, a.username)
		}
	}

	n, err := s.movies.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int64("movies", n).Msg("catalog not empty, skipping sample movies")
		return res, nil
	}

	for _, m := range sampleCatalog {
		desc := m.description
		thumb := sampleBucket + "images/" + m.file + ".jpg"
		sub := m.subtitle
		if _, err := s.movies.Create(ctx, &domain.Movie{
			Title:       m.title,
			Description: &desc,
			SourceURL:   sampleBucket + m.file + ".mp4",
			ThumbURL:    &thumb,
			Subtitle:    &sub,
		}); err != nil {
			return nil, fmt.Errorf("seed movie %q: %w", m.title, err)
		}
		res.MoviesCreated++
	}

	s.logger.Info().Int("movies", res.MoviesCreated).Strs("users", res.UsersCreated).Msg("seed complete")
	return res, nil
}

func (s *SeedService) ensureUser(ctx context.Context, username, password, email string, role domain.Role, cost int) (bool, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return false, err
	}

	if _, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        &email,
		PasswordHash: string(hash),
		Role:         role,
	}); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("seed user %q: %w", username, err)
	}
	return true, nil
}
