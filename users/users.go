// Package users is the store of the accounts that can log in to the FTP server.
package users

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sort"
	"strings"
	"sync"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrIPNotAllowed    = errors.New("ip not allowed")
)

type User struct {
	Username string
	Password string
	IPs      map[string]netip.Prefix // allowed origin prefixes, empty allows every address
}

// FindIP finds an IP in the prefixes in the user
func (u *User) FindIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, v := range u.IPs {
		if v.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// AddIP adds an IP prefix to the user
// if the ip is without the prefix, it will add /32 or /128
func (u *User) AddIP(ip string) error {
	if !strings.Contains(ip, "/") {
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			return fmt.Errorf("error parsing IP: %w", err)
		}
		ip = netip.PrefixFrom(addr, addr.BitLen()).String()
	}

	prefix, err := netip.ParsePrefix(ip)
	if err != nil {
		return fmt.Errorf("error parsing IP: %w", err)
	}

	u.IPs[prefix.String()] = prefix.Masked()
	return nil
}

// RemoveIP removes an IP prefix from the user
func (u *User) RemoveIP(ip string) {
	if !strings.Contains(ip, "/") {
		if addr, err := netip.ParseAddr(ip); err == nil {
			ip = netip.PrefixFrom(addr, addr.BitLen()).String()
		}
	}
	delete(u.IPs, ip)
}

// Allowed reports whether a client at remoteAddr, "host:port" or a bare ip, may log in
func (u *User) Allowed(remoteAddr string) bool {
	if len(u.IPs) == 0 {
		return true
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return u.FindIP(host)
}

type Users interface {
	List() ([]*User, error)
	// Get finds a user by username
	Get(username string) (*User, error)
	// Find finds a user by username and password that is allowed to connect from remoteAddr
	Find(username, password, remoteAddr string) (*User, error)
}

var _ Users = &LocalUsers{}

// LocalUsers keeps the users in memory
type LocalUsers struct {
	users map[string]*User
	mu    sync.RWMutex
}

func NewLocalUsers() *LocalUsers {
	return &LocalUsers{
		users: make(map[string]*User),
	}
}

// List returns the users sorted by username
func (u *LocalUsers) List() ([]*User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	list := make([]*User, 0, len(u.users))
	for _, user := range u.users {
		list = append(list, user)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

func (u *LocalUsers) Get(username string) (*User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (u *LocalUsers) Find(username, password, remoteAddr string) (*User, error) {
	user, err := u.Get(username)
	if err != nil {
		return nil, err
	}
	if user.Password != password {
		return nil, ErrInvalidPassword
	}
	if !user.Allowed(remoteAddr) {
		return nil, fmt.Errorf("%w: %s", ErrIPNotAllowed, remoteAddr)
	}
	return user, nil
}

func (u *LocalUsers) Add(username, pass string) *User {
	u.mu.Lock()
	defer u.mu.Unlock()

	newUser := &User{
		Username: username,
		Password: pass,
		IPs:      make(map[string]netip.Prefix),
	}

	u.users[newUser.Username] = newUser
	return newUser
}

func (u *LocalUsers) Remove(username string) *User {
	u.mu.Lock()
	defer u.mu.Unlock()
	oldUser := u.users[username]
	delete(u.users, username)
	return oldUser
}
