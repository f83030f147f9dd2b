package postgres

// Repositories groups the entity repositories built over one shared handle.
type Repositories struct {
	Users    *UserRepository
	Children *ChildRepository
}

// NewRepositories builds every repository over db. It holds no state of its
// own, so all repositories share db's connection pool or transaction.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Children: NewChildRepository(db),
	}
}
