package user

import (
	"fmt"
	"strconv"

	domuser "github.com/kailas-cloud/pairwise/internal/domain/user"
)

// userToHash converts a domain User to a map for HSET.
func userToHash(u domuser.User) map[string]string {
	p := u.Profile()
	return map[string]string{
		"token":         u.Token(),
		"public":        u.Public(),
		"task":          p.Task,
		"age":           strconv.Itoa(p.Age),
		"gender":        string(p.Gender),
		"education":     p.Education,
		"occupation":    p.Occupation,
		"from":          p.From,
		"source":        p.Source,
		"registered_at": strconv.FormatInt(u.RegisteredAt(), 10),
	}
}

// userFromHash hydrates a domain User from an HGETALL result map.
func userFromHash(m map[string]string) (domuser.User, error) {
	token := m["token"]
	if token == "" || m["public"] == "" {
		return domuser.User{}, fmt.Errorf("incomplete user hash")
	}

	age, err := strconv.Atoi(m["age"])
	if err != nil {
		return domuser.User{}, fmt.Errorf("invalid age: %w", err)
	}
	registeredAt, err := strconv.ParseInt(m["registered_at"], 10, 64)
	if err != nil {
		return domuser.User{}, fmt.Errorf("invalid registered_at: %w", err)
	}

	p := domuser.Profile{
		Age:        age,
		Gender:     domuser.Gender(m["gender"]),
		Education:  m["education"],
		Occupation: m["occupation"],
		From:       m["from"],
		Source:     m["source"],
		Task:       m["task"],
	}
	return domuser.Reconstruct(token, m["public"], p, registeredAt), nil
}
