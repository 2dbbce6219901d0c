package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrVaultLocked indicates another rook process is checking this vault.
var ErrVaultLocked = errors.New("vault is locked by another rook process")

// Lock is an exclusive advisory lock on a vault's state directory. It
// keeps two concurrent check runs from interleaving cache writes and the
// report update.
type Lock struct {
	file *os.File
}

// AcquireLock takes the vault lock without blocking. A held lock yields
// ErrVaultLocked.
func AcquireLock(vaultPath string) (*Lock, error) {
	stateDir := filepath.Join(vaultPath, StateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", StateDirName, err)
	}

	lockPath := filepath.Join(stateDir, "check.lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault lock: %w", err)
	}

	if err := tryLockExclusive(lockFile); err != nil {
		lockFile.Close()
		if errIsWouldBlock(err) {
			return nil, ErrVaultLocked
		}
		return nil, fmt.Errorf("failed to acquire vault lock: %w", err)
	}

	return &Lock{file: lockFile}, nil
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := releaseLock(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
