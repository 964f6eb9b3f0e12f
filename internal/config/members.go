package config

import (
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

// MemberEntry is one line of the members file. Permissions is "all" (also
// the default when empty) or a comma list of propose, vote, execute.
type MemberEntry struct {
	Key         string `yaml:"key"`
	Permissions string `yaml:"permissions"`
}

// MembersFile describes the member set a multisig is created with.
type MembersFile struct {
	Threshold uint16        `yaml:"threshold"`
	TimeLock  uint32        `yaml:"time_lock"`
	Members   []MemberEntry `yaml:"members"`
}

// LoadMembers reads and validates the members file.
func LoadMembers(path string) (*MembersFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	var f MembersFile
	if err := yaml.NewDecoder(file).Decode(&f); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if err := f.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating %s", path)
	}
	return &f, nil
}

// Validate checks the member set is usable for multisig creation.
func (f *MembersFile) Validate() error {
	if len(f.Members) == 0 {
		return errors.New("no members declared")
	}
	if f.Threshold == 0 {
		return errors.New("threshold must be at least 1")
	}
	if int(f.Threshold) > len(f.Members) {
		return errors.Errorf("threshold %d exceeds member count %d", f.Threshold, len(f.Members))
	}
	seen := make(map[string]struct{}, len(f.Members))
	for _, m := range f.Members {
		if _, ok := seen[m.Key]; ok {
			return errors.Errorf("duplicate member %s", m.Key)
		}
		seen[m.Key] = struct{}{}
		raw, err := base58.Decode(m.Key)
		if err != nil {
			return errors.Wrapf(err, "member %s", m.Key)
		}
		if len(raw) != solana.PublicKeyLength {
			return errors.Errorf("member %s decodes to %d bytes, want %d", m.Key, len(raw), solana.PublicKeyLength)
		}
		if _, err := parsePermissions(m.Permissions); err != nil {
			return errors.Wrapf(err, "member %s", m.Key)
		}
	}
	return nil
}

// SquadsMembers converts the entries into program member records.
func (f *MembersFile) SquadsMembers() ([]squads.Member, error) {
	members := make([]squads.Member, 0, len(f.Members))
	for _, m := range f.Members {
		key, err := solana.PublicKeyFromBase58(m.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "member %s", m.Key)
		}
		mask, err := parsePermissions(m.Permissions)
		if err != nil {
			return nil, errors.Wrapf(err, "member %s", m.Key)
		}
		members = append(members, squads.Member{
			Key:         key,
			Permissions: squads.Permissions{Mask: mask},
		})
	}
	return members, nil
}

func parsePermissions(raw string) (uint8, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "all", "full":
		return squads.PermissionFull, nil
	}
	var mask uint8
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "propose":
			mask |= squads.PermissionPropose
		case "vote":
			mask |= squads.PermissionVote
		case "execute":
			mask |= squads.PermissionExecute
		default:
			return 0, errors.Errorf("unknown permission %q", part)
		}
	}
	return mask, nil
}
