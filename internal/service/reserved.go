package service

import "strings"

// protectedUsernames — зарезервированные имена, запрещённые к регистрации:
// административные, технические и сервисные идентификаторы.
var protectedUsernames = map[string]struct{}{}

func init() {
	names := []string{
		"about", "access", "account", "accounts", "add", "address", "adm",
		"admin", "administration", "adult", "advertising", "affiliate",
		"affiliates", "ajax", "analytics", "android", "anon", "anonymous",
		"api", "app", "apps", "archive", "atom", "auth", "authentication",
		"avatar", "backup", "banner", "banners", "beta", "billing", "bin",
		"blog", "blogs", "board", "bot", "bots", "business", "cache",
		"cadastro", "calendar", "campaign", "careers", "cgi", "chat",
		"client", "cliente", "code", "comercial", "compare", "compras",
		"config", "connect", "contact", "contest", "create", "css",
		"dashboard", "data", "db", "delete", "demo", "design", "designer",
		"dev", "devel", "dir", "directory", "doc", "docs", "domain",
		"download", "downloads", "ecommerce", "edit", "editor", "email",
		"faq", "favorite", "feed", "feedback", "file", "files", "flog",
		"follow", "forum", "forums", "free", "ftp", "gadget", "gadgets",
		"games", "group", "groups", "guest", "help", "home", "homepage",
		"host", "hosting", "hostname", "hpg", "html", "http", "httpd",
		"https", "image", "images", "imap", "img", "index", "indice",
		"info", "information", "intranet", "invite", "ipad", "iphone",
		"irc", "java", "javascript", "job", "jobs", "js", "knowledgebase",
		"list", "lists", "log", "login", "logout", "logs", "mail", "mail1",
		"mail2", "mail3", "mail4", "mail5", "mailer", "mailing",
		"marketing", "manager", "master", "me", "media", "message",
		"messenger", "microblog", "microblogs", "mine", "mob", "mobile",
		"movie", "movies", "mp3", "msg", "msn", "music", "musicas", "mx",
		"my", "mysql", "name", "named", "net", "network", "new", "news",
		"newsletter", "nick", "nickname", "notes", "noticias", "ns", "ns1",
		"ns10", "ns2", "ns3", "ns4", "ns5", "ns6", "ns7", "ns8", "ns9",
		"old", "online", "operator", "order", "orders", "page", "pager",
		"pages", "panel", "password", "perl", "photo", "photoalbum",
		"photos", "php", "pic", "pics", "plugin", "plugins", "pop", "pop3",
		"post", "postfix", "postmaster", "posts", "profile", "project",
		"projects", "promo", "pub", "public", "python", "random",
		"register", "registration", "root", "rss", "ruby", "sale", "sales",
		"sample", "samples", "script", "scripts", "search", "secure",
		"security", "send", "service", "setting", "settings", "setup",
		"shop", "signin", "signup", "site", "sitemap", "sites", "smtp",
		"soporte", "sql", "ssh", "stage", "staging", "start", "stat",
		"static", "stats", "status", "store", "stores", "subdomain",
		"subscribe", "suporte", "support", "system", "tablet", "tablets",
		"talk", "task", "tasks", "tech", "telnet", "test", "test1",
		"test2", "test3", "teste", "tests", "theme", "themes", "tmp",
		"todo", "tools", "tv", "update", "upload", "url", "usage", "user",
		"username", "usuario", "vendas", "video", "videos", "visitor",
		"web", "webmail", "webmaster", "website", "websites", "win",
		"workshop", "ww", "www", "www1", "www2", "www3", "www4", "www5",
		"www6", "www7", "wwws", "wwww", "wws", "xpg", "xxx", "you",
	}

	for _, n := range names {
		protectedUsernames[n] = struct{}{}
	}
}

// isProtectedUsername сообщает, входит ли имя в список зарезервированных.
// Сравнение без учёта регистра.
func isProtectedUsername(username string) bool {
	_, ok := protectedUsernames[strings.ToLower(username)]
	return ok
}
