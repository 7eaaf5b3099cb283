package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific
// transaction, so multi-step cascades (group deletion, member removal)
// commit or roll back as a unit.
type RepositoryFactory interface {
	// UserRepo returns a UserRepository bound to the current transaction.
	UserRepo() UserRepository

	// GroupRepo returns a GroupRepository bound to the current transaction.
	GroupRepo() GroupRepository

	// RobotRepo returns a RobotRepository bound to the current transaction.
	RobotRepo() RobotRepository

	// PermissionRepo returns a PermissionRepository bound to the current transaction.
	PermissionRepo() PermissionRepository

	// SettingRepo returns a SettingRepository bound to the current transaction.
	SettingRepo() SettingRepository
}
