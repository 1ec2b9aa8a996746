package repository

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/projectarcadia/portal/internal/cache"
	"github.com/projectarcadia/portal/internal/database"
	"github.com/projectarcadia/portal/internal/model"
)

var _ MemberRepository = &MemberDbRepository{}

// MemberDbRepository serves member lookups from the database behind a TTL
// cache. An empty members table is seeded from a yaml file, and the file is
// watched so new entries can be imported on a live server.
type MemberDbRepository struct {
	logger      *slog.Logger
	membersFile string
	cache       *cache.Cache[*model.Member]
	dbm         *database.DatabaseManager

	watcher *fsnotify.Watcher
}

func NewDbMemberRepo(membersFile string, dbm *database.DatabaseManager, ttl time.Duration) *MemberDbRepository {
	r := &MemberDbRepository{
		membersFile: membersFile,
		logger:      slog.With(slog.String("logger", "member_repo")),
		dbm:         dbm,
	}

	if ttl <= 0 {
		ttl = time.Second * 10
	}

	r.cache = cache.NewWithTTL[*model.Member](ttl, r.loadMember)

	return r
}

func (r *MemberDbRepository) loadMember(username string) *model.Member {
	return r.dbm.MemberQuery().Username(username).One()
}

func (r *MemberDbRepository) Start() error {
	if r.dbm.MemberQuery().Count() == 0 {
		if err := r.importMembersFile(); err != nil {
			return err
		}
	}

	return r.watch()
}

func (r *MemberDbRepository) Stop() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}

func (r *MemberDbRepository) Get(username string) *model.Member {
	return r.cache.Load(username)
}

func (r *MemberDbRepository) Invalidate(username string) {
	r.cache.Invalidate(username)
}

// importMembersFile creates members listed in the seed file that are not in
// the database yet. Existing rows are never touched, so admin edits survive
// a re-import. Plaintext passwords in the file are hashed on the way in.
func (r *MemberDbRepository) importMembersFile() error {
	if _, err := os.Lstat(r.membersFile); os.IsNotExist(err) {
		return nil
	}

	dat, err := os.ReadFile(r.membersFile)
	if err != nil {
		return err
	}

	members := make([]*model.Member, 0)

	if err1 := yaml.Unmarshal(dat, &members); err1 != nil {
		return err1
	}

	for _, m := range members {
		if m.Username == "" {
			continue
		}

		if r.dbm.MemberQuery().Username(m.Username).Count() > 0 {
			continue
		}

		if !strings.HasPrefix(m.Password, "$2") {
			if err1 := m.SetPassword(m.Password); err1 != nil {
				return err1
			}
		}

		if m.Tier == "" {
			m.Tier = model.TierStandard
		}

		if m.Status == "" {
			m.Status = model.StatusActive
		}

		if m.JoinDate.IsZero() {
			m.JoinDate = time.Now()
		}

		if m.Permissions == (model.Permissions{}) {
			m.Permissions = model.DefaultPermissions(m.Tier, m.Admin)
		}

		if err1 := r.dbm.Save(m); err1 != nil {
			return err1
		}

		r.logger.Info("imported member " + m.Username)
	}

	return nil
}

func (r *MemberDbRepository) watch() error {
	if _, err := os.Lstat(r.membersFile); os.IsNotExist(err) {
		return nil
	}

	var err error
	r.watcher, err = fsnotify.NewWatcher()

	if err != nil {
		return err
	}

	if err := r.watcher.Add(r.membersFile); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-r.watcher.Events:
				if !ok {
					return
				}

				r.logger.Debug(fmt.Sprintf("event: %v", event))

				if event.Has(fsnotify.Write) && event.Name == r.membersFile {
					r.logger.Info("members file is modified, importing")

					if err := r.importMembersFile(); err != nil {
						r.logger.Error("error", slog.Any("error", err))
					}
				}
			case err, ok := <-r.watcher.Errors:
				if !ok {
					return
				}

				r.logger.Error("error", slog.Any("error", err))
			}
		}
	}()

	return nil
}
