package resource

import "fmt"

// Validate checks a resource manifest for structural integrity: every
// entry needs a non-empty id, ids are unique within the manifest, and
// path-bearing kinds need a non-empty path.
func Validate(resources []Resource) error {
	seen := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		id := r.ResourceID()
		if id == "" {
			return fmt.Errorf("resource: %s entry has an empty id", r.ResourceType())
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("resource: duplicate resource id %q", id)
		}
		seen[id] = struct{}{}

		switch v := r.(type) {
		case *ClassResource:
			if v.ClassName == "" {
				return fmt.Errorf("resource: class resource %q has an empty class name", id)
			}
		case *ArchiveResource:
			if v.Path == "" {
				return fmt.Errorf("resource: archive resource %q has an empty path", id)
			}
		case *FileResource:
			if v.Path == "" {
				return fmt.Errorf("resource: file resource %q has an empty path", id)
			}
		}
	}
	return nil
}
