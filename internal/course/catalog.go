package course

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrUnknownCourse = errors.New("unknown course")

type Course struct {
	Key    string   `yaml:"key" json:"key"`
	Title  string   `yaml:"title" json:"title"`
	Videos []string `yaml:"videos" json:"videos"`
}

type catalogFile struct {
	Courses []Course `yaml:"courses"`
}

// Catalog holds the fixed, ordered video list of every course. It is safe for
// concurrent use and may be swapped wholesale by Reload.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	courses map[string]Course
}

func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse course catalog: %w", err)
	}
	c := &Catalog{}
	if err := c.set(f.Courses); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the catalog at path, falling back to the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (c *Catalog) set(courses []Course) error {
	order := make([]string, 0, len(courses))
	byKey := make(map[string]Course, len(courses))
	for _, course := range courses {
		if course.Key == "" {
			return errors.New("course catalog: empty course key")
		}
		if _, dup := byKey[course.Key]; dup {
			return fmt.Errorf("course catalog: duplicate course %q", course.Key)
		}
		seen := make(map[string]bool, len(course.Videos))
		for _, v := range course.Videos {
			if seen[v] {
				return fmt.Errorf("course catalog: video %q listed twice in %q", v, course.Key)
			}
			seen[v] = true
		}
		order = append(order, course.Key)
		byKey[course.Key] = course
	}

	c.mu.Lock()
	c.order = order
	c.courses = byKey
	c.mu.Unlock()
	return nil
}

// Reload replaces the catalog contents with the file at path.
func (c *Catalog) Reload(path string) error {
	next, err := Load(path)
	if err != nil {
		return err
	}
	next.mu.RLock()
	courses := make([]Course, 0, len(next.order))
	for _, key := range next.order {
		courses = append(courses, next.courses[key])
	}
	next.mu.RUnlock()
	return c.set(courses)
}

func (c *Catalog) Get(key string) (Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	course, ok := c.courses[key]
	if !ok {
		return Course{}, fmt.Errorf("%w: %s", ErrUnknownCourse, key)
	}
	return course, nil
}

// Videos returns a copy of the ordered video ids of a course.
func (c *Catalog) Videos(key string) ([]string, error) {
	course, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), course.Videos...), nil
}

// Totals maps every course key to its video count.
func (c *Catalog) Totals() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	totals := make(map[string]int, len(c.courses))
	for key, course := range c.courses {
		totals[key] = len(course.Videos)
	}
	return totals
}

func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// IndexOf returns the position of videoID within course key, or -1.
func (c *Catalog) IndexOf(key, videoID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, v := range c.courses[key].Videos {
		if v == videoID {
			return i
		}
	}
	return -1
}
