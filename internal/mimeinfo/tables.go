package mimeinfo

var builtinExtensions = map[string][]string{
	// images
	".png":  {"image/png"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".gif":  {"image/gif"},
	".bmp":  {"image/bmp"},
	".webp": {"image/webp"},
	".tif":  {"image/tiff"},
	".tiff": {"image/tiff"},
	".ico":  {"image/vnd.microsoft.icon"},
	".svg":  {"image/svg+xml"},
	".svgz": {"image/svg+xml-compressed", "image/svg+xml"},
	".heic": {"image/heif"},

	// text and source
	".txt":  {"text/plain"},
	".md":   {"text/markdown", "text/plain"},
	".go":   {"text/x-go"},
	".rs":   {"text/rust"},
	".py":   {"text/x-python3", "text/x-python"},
	".c":    {"text/x-csrc"},
	".h":    {"text/x-chdr"},
	".js":   {"application/javascript"},
	".json": {"application/json"},
	".yaml": {"application/x-yaml"},
	".yml":  {"application/x-yaml"},
	".toml": {"application/toml"},
	".xml":  {"application/xml"},
	".html": {"text/html"},
	".css":  {"text/css"},
	".csv":  {"text/csv"},
	".sh":   {"application/x-shellscript"},
	".log":  {"text/x-log", "text/plain"},

	// documents
	".pdf":  {"application/pdf"},
	".odt":  {"application/vnd.oasis.opendocument.text"},
	".ods":  {"application/vnd.oasis.opendocument.spreadsheet"},
	".odp":  {"application/vnd.oasis.opendocument.presentation"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".xls":  {"application/vnd.ms-excel"},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	".ppt":  {"application/vnd.ms-powerpoint"},
	".pptx": {"application/vnd.openxmlformats-officedocument.presentationml.presentation"},

	// archives
	".zip":    {"application/zip"},
	".tar":    {"application/x-tar"},
	".gz":     {"application/gzip"},
	".xz":     {"application/x-xz"},
	".bz2":    {"application/x-bzip2"},
	".7z":     {"application/x-7z-compressed"},
	".tar.gz": {"application/x-compressed-tar"},
	".tgz":    {"application/x-compressed-tar"},
	".tar.xz": {"application/x-xz-compressed-tar"},
	".deb":    {"application/vnd.debian.binary-package"},
	".rpm":    {"application/x-rpm"},

	// media
	".mp3":  {"audio/mpeg"},
	".ogg":  {"audio/ogg"},
	".flac": {"audio/flac"},
	".wav":  {"audio/x-wav"},
	".mp4":  {"video/mp4"},
	".mkv":  {"video/x-matroska"},
	".webm": {"video/webm"},
	".mov":  {"video/quicktime"},

	// fonts
	".ttf":  {"font/ttf"},
	".otf":  {"font/otf"},
	".woff": {"font/woff"},
}

var builtinIcons = map[string]string{
	"image/svg+xml":             "image-x-generic",
	"image/svg+xml-compressed":  "image-x-generic",
	"text/plain":                "text-x-generic",
	"text/html":                 "text-html",
	"text/x-go":                 "text-x-script",
	"text/x-python":             "text-x-script",
	"text/x-python3":            "text-x-script",
	"application/x-shellscript": "text-x-script",
	"application/javascript":    "text-x-script",
	"application/json":          "text-x-generic",
	"application/x-yaml":        "text-x-generic",
	"application/toml":          "text-x-generic",
	"application/xml":           "text-x-generic",

	"application/pdf":                                                           "x-office-document",
	"application/msword":                                                        "x-office-document",
	"application/vnd.oasis.opendocument.text":                                   "x-office-document",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "x-office-document",
	"application/vnd.oasis.opendocument.spreadsheet":                            "x-office-spreadsheet",
	"application/vnd.ms-excel":                                                  "x-office-spreadsheet",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "x-office-spreadsheet",
	"application/vnd.oasis.opendocument.presentation":                           "x-office-presentation",
	"application/vnd.ms-powerpoint":                                             "x-office-presentation",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "x-office-presentation",

	"application/zip":                       "package-x-generic",
	"application/x-tar":                     "package-x-generic",
	"application/gzip":                      "package-x-generic",
	"application/x-xz":                      "package-x-generic",
	"application/x-bzip2":                   "package-x-generic",
	"application/x-7z-compressed":           "package-x-generic",
	"application/x-compressed-tar":          "package-x-generic",
	"application/x-xz-compressed-tar":       "package-x-generic",
	"application/vnd.debian.binary-package": "package-x-generic",
	"application/x-rpm":                     "package-x-generic",
	"application/x-executable":              "application-x-executable",

	"font/ttf":  "font-x-generic",
	"font/otf":  "font-x-generic",
	"font/woff": "font-x-generic",
}
