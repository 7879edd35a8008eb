package verify

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"
)

const (
	ownershipStatErrorTemplateConstant        = "unable to stat %s: %w"
	ownershipUnsupportedMessageTemplateConst  = "ownership metadata unavailable for %s"
	ownershipLookupFailureTemplateConstant    = "unable to resolve account for uid %d: %w"
	ownershipDecimalBaseConstant              = 10
)

// OSOwnershipInspector resolves filesystem owners using the host account database.
type OSOwnershipInspector struct{}

// NewOSOwnershipInspector constructs an ownership inspector backed by os.Stat and os/user.
func NewOSOwnershipInspector() *OSOwnershipInspector {
	return &OSOwnershipInspector{}
}

// Owner returns the account name owning the path, falling back to the numeric
// uid when the account database has no matching entry.
func (inspector *OSOwnershipInspector) Owner(path string) (string, error) {
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		return "", fmt.Errorf(ownershipStatErrorTemplateConstant, path, statError)
	}

	statDetails, supported := fileInformation.Sys().(*syscall.Stat_t)
	if !supported {
		return "", fmt.Errorf(ownershipUnsupportedMessageTemplateConst, path)
	}

	ownerIdentifier := strconv.FormatUint(uint64(statDetails.Uid), ownershipDecimalBaseConstant)
	ownerAccount, lookupError := user.LookupId(ownerIdentifier)
	if lookupError != nil {
		if _, unknownUser := lookupError.(user.UnknownUserIdError); unknownUser {
			return ownerIdentifier, nil
		}
		return "", fmt.Errorf(ownershipLookupFailureTemplateConstant, statDetails.Uid, lookupError)
	}

	return ownerAccount.Username, nil
}
